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


package taxonomy

import (
	"context"
	"fmt"

	"github.com/poiesic/ticketgraph/core"
)

// fallbackFunctionalities is used when the resource tree has no third-level
// entries yet, so the mapping collaborator always has something to pick.
var fallbackFunctionalities = []string{"General", core.FallbackCategory}

// LoadVocabulary fetches one consistent snapshot of all category lists from
// the store. Resource nodes are split by depth: nodes hanging off the tree
// root (or parentless nodes) are modules, everything deeper is a
// functionality. The snapshot is taken once per ingestion batch; failures
// here are batch-fatal for the caller.
func LoadVocabulary(ctx context.Context, store Store) (*core.Vocabulary, error) {
	vocab := &core.Vocabulary{}

	flat := []struct {
		nodeType string
		dest     *[]string
	}{
		{TypeSymptom, &vocab.Symptoms},
		{TypeCause, &vocab.Causes},
		{TypeSolution, &vocab.Solutions},
		{TypeError, &vocab.ErrorCodes},
		{TypeEvent, &vocab.EventCodes},
	}
	for _, list := range flat {
		nodes, err := store.ListNodes(ctx, list.nodeType)
		if err != nil {
			return nil, fmt.Errorf("load %s vocabulary: %w", list.nodeType, err)
		}
		*list.dest = nodeNames(nodes)
	}

	resources, err := store.ListNodes(ctx, TypeResource)
	if err != nil {
		return nil, fmt.Errorf("load resource vocabulary: %w", err)
	}
	vocab.Modules, vocab.Functionalities = splitResources(resources)

	if len(vocab.Functionalities) == 0 {
		vocab.Functionalities = append([]string(nil), fallbackFunctionalities...)
	}

	return vocab, nil
}

// splitResources partitions resource nodes into modules and functionalities.
// Roots and their direct children are modules; anything deeper is a
// functionality.
func splitResources(nodes []*Node) (modules, functionalities []string) {
	rootIDs := make(map[int64]bool)
	for _, node := range nodes {
		if node.ParentID == nil {
			rootIDs[node.ID] = true
		}
	}

	for _, node := range nodes {
		if node.ParentID == nil || rootIDs[*node.ParentID] {
			modules = append(modules, node.Name)
		} else {
			functionalities = append(functionalities, node.Name)
		}
	}
	return modules, functionalities
}

func nodeNames(nodes []*Node) []string {
	names := make([]string, 0, len(nodes))
	for _, node := range nodes {
		names = append(names, node.Name)
	}
	return names
}
