package logging

import (
	"strings"

	"github.com/google/uuid"
)

// RequestIDGenerator genera ids con prefijo: {prefix}_{uuid sin guiones}
type RequestIDGenerator struct {
	prefix string
}

func NewRequestIDGenerator(prefix string) *RequestIDGenerator {
	if prefix == "" {
		prefix = "req"
	}
	return &RequestIDGenerator{prefix: prefix}
}

func (g *RequestIDGenerator) Generate() string {
	return g.prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GenerateShort usa solo los primeros 8 caracteres hex del uuid
func (g *RequestIDGenerator) GenerateShort() string {
	return g.prefix + "_" + uuid.NewString()[:8]
}

var (
	defaultGenerator = NewRequestIDGenerator("req")
	sessionGenerator = NewRequestIDGenerator("ws")
)

func GenerateRequestID() string {
	return defaultGenerator.Generate()
}

func GenerateSessionID() string {
	return sessionGenerator.GenerateShort()
}
