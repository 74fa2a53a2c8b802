// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package graph

import (
	"github.com/poiesic/ticketgraph/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalTicketRecord serializes a GraphTicketRecord to bytes.
func MarshalTicketRecord(record *core.GraphTicketRecord) []byte {
	buf := make([]byte, core.TicketRecordMUS.Size(*record))
	core.TicketRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalTicketRecord deserializes a GraphTicketRecord from bytes.
func UnmarshalTicketRecord(data []byte) (*core.GraphTicketRecord, error) {
	record, _, err := core.TicketRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalCategoryNode serializes a CategoryNode to bytes.
func MarshalCategoryNode(node core.CategoryNode) []byte {
	buf := make([]byte, core.CategoryNodeMUS.Size(node))
	core.CategoryNodeMUS.Marshal(node, buf)
	return buf
}

// UnmarshalCategoryNode deserializes a CategoryNode from bytes.
func UnmarshalCategoryNode(data []byte) (core.CategoryNode, error) {
	node, _, err := core.CategoryNodeMUS.Unmarshal(data)
	return node, err
}

// MarshalEntityNode serializes an EntityNode to bytes.
func MarshalEntityNode(node core.EntityNode) []byte {
	buf := make([]byte, core.EntityNodeMUS.Size(node))
	core.EntityNodeMUS.Marshal(node, buf)
	return buf
}

// UnmarshalEntityNode deserializes an EntityNode from bytes.
func UnmarshalEntityNode(data []byte) (core.EntityNode, error) {
	node, _, err := core.EntityNodeMUS.Unmarshal(data)
	return node, err
}

// MarshalResourceNode serializes a ResourceNode to bytes.
func MarshalResourceNode(node core.ResourceNode) []byte {
	buf := make([]byte, core.ResourceNodeMUS.Size(node))
	core.ResourceNodeMUS.Marshal(node, buf)
	return buf
}

// UnmarshalResourceNode deserializes a ResourceNode from bytes.
func UnmarshalResourceNode(data []byte) (core.ResourceNode, error) {
	node, _, err := core.ResourceNodeMUS.Unmarshal(data)
	return node, err
}
