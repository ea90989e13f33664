package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"

	"chameleon.app/honeypot/internal/model"
)

// SchemaHandler serves the JSON Schema of the final report payload so
// reporting-endpoint integrators can validate against it.
type SchemaHandler struct {
	schema *jsonschema.Schema
}

func NewSchemaHandler() *SchemaHandler {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return &SchemaHandler{
		schema: reflector.Reflect(&model.FinalIntelligence{}),
	}
}

func (h *SchemaHandler) ReportSchema(c *gin.Context) {
	c.JSON(http.StatusOK, h.schema)
}
