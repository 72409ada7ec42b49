// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package httpapi

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// errValidation marks request-body schema violations so the response
// layer can map them to 400 without inspecting oops codes.
var errValidation = errors.New("request validation failed")

// maxBodyBytes bounds request bodies; no endpoint accepts large
// payloads.
const maxBodyBytes = 1 << 20

// validator holds the compiled request schemas.
type validator struct {
	schemas map[string]*jschema.Schema
}

// newValidator compiles every embedded schema at startup so a broken
// schema fails the process, not a request.
func newValidator() (*validator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, oops.Code("SCHEMA_LOAD_FAILED").Wrap(err)
	}

	compiler := jschema.NewCompiler()
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		raw, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, oops.Code("SCHEMA_LOAD_FAILED").With("schema", entry.Name()).Wrap(err)
		}
		doc, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, oops.Code("SCHEMA_PARSE_FAILED").With("schema", entry.Name()).Wrap(err)
		}
		if err := compiler.AddResource(entry.Name(), doc); err != nil {
			return nil, oops.Code("SCHEMA_COMPILE_FAILED").With("schema", entry.Name()).Wrap(err)
		}
		names = append(names, entry.Name())
	}

	schemas := make(map[string]*jschema.Schema, len(names))
	for _, name := range names {
		sch, err := compiler.Compile(name)
		if err != nil {
			return nil, oops.Code("SCHEMA_COMPILE_FAILED").With("schema", name).Wrap(err)
		}
		schemas[name] = sch
	}
	return &validator{schemas: schemas}, nil
}

// decode reads the request body, validates it against the named schema
// and unmarshals it into dst. Schema violations and malformed JSON
// both surface as errValidation.
func (v *validator) decode(r *http.Request, schemaName string, dst any) error {
	sch, ok := v.schemas[schemaName]
	if !ok {
		return oops.Code("SCHEMA_UNKNOWN").With("schema", schemaName).
			Errorf("no schema registered as %s", schemaName)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return oops.Code("VALIDATION_FAILED").Wrapf(errValidation, "read body: %v", err)
	}

	doc, err := jschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return oops.Code("VALIDATION_FAILED").Wrapf(errValidation, "malformed json: %v", err)
	}
	if err := sch.Validate(doc); err != nil {
		return oops.Code("VALIDATION_FAILED").With("schema", schemaName).
			Wrapf(errValidation, "schema violation: %v", err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return oops.Code("VALIDATION_FAILED").Wrapf(errValidation, "decode body: %v", err)
	}
	return nil
}
