// Package api holds the HTTP request and response bodies generated from api/openapi.yaml.
package api

//go:generate go tool oapi-codegen -config ../../api/oapi-codegen.yaml ../../api/openapi.yaml
