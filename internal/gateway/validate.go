package gateway

import (
	"strings"

	"github.com/nuwandev/github-stats/internal/domain"
)

// validateEnvelope classifies a raw GraphQL envelope into the error taxonomy.
// A non-empty error list wins over any partial data the server also sent.
func validateEnvelope(envelope *graphQLEnvelope) error {
	if len(envelope.Errors) > 0 {
		first := envelope.Errors[0]
		if strings.Contains(strings.ToLower(first.Message), "forbidden") {
			return &domain.PermissionError{Message: first.Message}
		}
		if first.Type == "NOT_FOUND" {
			return &domain.NotFoundError{Resource: first.Message}
		}
		return &domain.GraphQLError{Message: first.Message}
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &domain.NotFoundError{Resource: "response data"}
	}
	return nil
}
