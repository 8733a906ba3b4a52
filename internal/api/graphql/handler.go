package graphql

import (
	"encoding/json"
	"net/http"
	"time"

	gql "github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/schedulr/appointments-api/internal/api/metrics"
)

// Handler serves POST /graphql and read-only GET /graphql.
type Handler struct {
	schema gql.Schema
	log    zerolog.Logger
}

func NewHandler(r *Resolver, log zerolog.Logger) (*Handler, error) {
	schema, err := NewSchema(r)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema, log: log}, nil
}

type request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Serve executes a GraphQL request. Execution errors are reported in the
// response body with status 200; only malformed requests get a 4xx.
//
// @Summary      Execute a GraphQL operation
// @Tags         graphql
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /graphql [post]
func (h *Handler) Serve(c echo.Context) error {
	req, err := h.decode(c)
	if err != nil {
		return err
	}

	start := time.Now()
	result := gql.Do(gql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request().Context(),
	})

	operation := operationType(req.Query, req.OperationName)
	outcome := "ok"
	if result.HasErrors() {
		outcome = "error"
	}
	metrics.GraphQLDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	metrics.GraphQLRequestsTotal.WithLabelValues(operation, outcome).Inc()

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) decode(c echo.Context) (*request, error) {
	req := &request{}
	if c.Request().Method == http.MethodGet {
		req.Query = c.QueryParam("query")
		req.OperationName = c.QueryParam("operationName")
		if raw := c.QueryParam("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "variables must be a JSON object")
			}
		}
	} else if err := c.Bind(req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if req.Query == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	if c.Request().Method == http.MethodGet && operationType(req.Query, req.OperationName) == ast.OperationTypeMutation {
		return nil, echo.NewHTTPError(http.StatusMethodNotAllowed, "mutations must be sent with POST")
	}
	return req, nil
}

// operationType returns the type of the operation to be executed: "query",
// "mutation" or "subscription". Documents that fail to parse, or that hold no
// operation matching operationName, yield "unknown" and are rejected by the
// executor. The result is bounded, so it is safe as a metric label.
func operationType(query, operationName string) string {
	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return "unknown"
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		switch op.Operation {
		case ast.OperationTypeQuery, ast.OperationTypeMutation, ast.OperationTypeSubscription:
			return op.Operation
		}
		return "unknown"
	}
	return "unknown"
}
