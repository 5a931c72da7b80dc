package catalog

import (
	"github.com/luminform/atelier/internal/domain/shared"
)

const (
	AggregateTypeCollection = "Collection"

	EventTypeCollectionPublished = "collection.published"
)

// CollectionPublishedEvent is published when a collection goes live
type CollectionPublishedEvent struct {
	shared.BaseDomainEvent
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	ItemCount int    `json:"item_count"`
}

// NewCollectionPublishedEvent creates a CollectionPublishedEvent
func NewCollectionPublishedEvent(c *Collection) *CollectionPublishedEvent {
	return &CollectionPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCollectionPublished, AggregateTypeCollection, c.ID, c.PartnerID),
		Name:            c.Name,
		Slug:            c.Slug,
		ItemCount:       len(c.Items),
	}
}
