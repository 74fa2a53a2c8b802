package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/ticketgraph/core"
)

// Key prefixes for different data types
const (
	ticketRecordPrefix = "ticrec"
	categoryNodePrefix = "catnod"
	categoryLinkPrefix = "catlnk"
	resourceNodePrefix = "resnod"
	entityNodePrefix   = "entnod"
	entityLinkPrefix   = "entlnk"
)

// makeTicketKey generates a key for a ticket record by its external ID.
func makeTicketKey(ticketID string) []byte {
	return []byte(ticketRecordPrefix + ":" + ticketID)
}

// ticketIDFromKey recovers the external ticket ID from a record key.
func ticketIDFromKey(key []byte) string {
	return string(key[len(ticketRecordPrefix)+1:])
}

// makeCategoryNodeKey generates a key for a category node by content ID.
func makeCategoryNodeKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", categoryNodePrefix, id))
}

// makeResourceNodeKey generates a key for a resource node by content ID.
func makeResourceNodeKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", resourceNodePrefix, id))
}

// makeEntityNodeKey generates a key for an entity node by content ID.
func makeEntityNodeKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", entityNodePrefix, id))
}

// makeLinkKey generates a composite key linking a shared node to a ticket.
// Format: prefix:nodeID:ticketID. The node ID is written in BigEndian order
// so all links of one node are adjacent in key order.
func makeLinkKey(prefix string, nodeID core.ID, ticketID string) []byte {
	head := prefix + ":"
	buf := make([]byte, len(head)+8+1+len(ticketID))
	offset := copy(buf, head)
	binary.BigEndian.PutUint64(buf[offset:], uint64(nodeID))
	offset += 8
	buf[offset] = ':'
	copy(buf[offset+1:], ticketID)
	return buf
}
