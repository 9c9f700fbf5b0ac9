package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// apiDocument is the loaded OpenAPI description of the JSON API. Routes are
// registered from its operations so the document and the mux cannot drift.
type apiDocument struct {
	spec       *openapi3.T
	encoded    []byte
	operations map[string]operation
}

type operation struct {
	Method string
	Path   string
}

// Pattern renders the operation as a ServeMux pattern. OpenAPI path
// templates already use the {name} wildcard syntax.
func (o operation) Pattern() string {
	return o.Method + " " + o.Path
}

func loadAPIDocument(ctx context.Context) (*apiDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	spec, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("server: load openapi document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("server: validate openapi document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("server: openapi document does not contain any paths")
	}

	encoded, err := spec.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("server: encode openapi document: %w", err)
	}

	doc := &apiDocument{
		spec:       spec,
		encoded:    encoded,
		operations: make(map[string]operation),
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.OperationID == "" {
				continue
			}
			doc.operations[op.OperationID] = operation{Method: method, Path: path}
		}
	}
	return doc, nil
}

// Operation looks up an operation by id.
func (d *apiDocument) Operation(id string) (operation, error) {
	op, ok := d.operations[id]
	if !ok {
		return operation{}, fmt.Errorf("server: openapi document has no operation %q", id)
	}
	return op, nil
}

func (d *apiDocument) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowedWith(w, http.MethodGet, http.MethodHead)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(d.encoded)
}
