package ingestion

import "errors"

var (
	// ErrGraphRepositoryRequired is returned when a graph repository is not provided.
	ErrGraphRepositoryRequired = errors.New("graph repository required")

	// ErrTaxonomyStoreRequired is returned when a taxonomy store is not provided.
	ErrTaxonomyStoreRequired = errors.New("taxonomy store required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")
)
