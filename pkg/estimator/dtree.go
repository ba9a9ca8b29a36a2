/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package estimator

import (
	"errors"
	"sort"
)

// DecisionTree is a CART-style classifier splitting on gini impurity with
// numeric thresholds (x <= threshold goes left).
// Fields are exported for gob serialization.
type DecisionTree struct {
	MaxDepth        int // 0 means no depth limit
	MinSamplesSplit int
	Root            *TreeNode
}

type TreeNode struct {
	Leaf      bool
	Class     int
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

func NewDecisionTree(maxDepth int, minSamplesSplit int) *DecisionTree {
	if minSamplesSplit < 2 {
		minSamplesSplit = 2
	}
	return &DecisionTree{MaxDepth: maxDepth, MinSamplesSplit: minSamplesSplit}
}

func (t *DecisionTree) Fit(features [][]float64, labels []int) error {
	if err := validateInput(features, labels); err != nil {
		return err
	}
	indices := make([]int, len(features))
	for i := range indices {
		indices[i] = i
	}
	t.Root = t.buildNode(features, labels, indices, 0)
	return nil
}

func (t *DecisionTree) Predict(features [][]float64) ([]int, error) {
	if t.Root == nil {
		return nil, errors.New("dtree: Predict called before Fit")
	}
	out := make([]int, len(features))
	for i, row := range features {
		node := t.Root
		for !node.Leaf {
			if row[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		out[i] = node.Class
	}
	return out, nil
}

func (t *DecisionTree) buildNode(features [][]float64, labels []int, indices []int, depth int) *TreeNode {
	majority, pure := majorityClass(labels, indices)
	if pure ||
		len(indices) < t.MinSamplesSplit ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return &TreeNode{Leaf: true, Class: majority}
	}

	feature, threshold, ok := bestSplit(features, labels, indices)
	if !ok {
		return &TreeNode{Leaf: true, Class: majority}
	}

	left := make([]int, 0, len(indices))
	right := make([]int, 0, len(indices))
	for _, idx := range indices {
		if features[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &TreeNode{Leaf: true, Class: majority}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.buildNode(features, labels, left, depth+1),
		Right:     t.buildNode(features, labels, right, depth+1),
	}
}

func majorityClass(labels []int, indices []int) (majority int, pure bool) {
	counts := make(map[int]int)
	for _, idx := range indices {
		counts[labels[idx]]++
	}
	best := -1
	for class, count := range counts {
		if count > best || (count == best && class < majority) {
			best = count
			majority = class
		}
	}
	return majority, len(counts) == 1
}

func giniImpurity(counts map[int]int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, count := range counts {
		p := float64(count) / float64(total)
		impurity -= p * p
	}
	return impurity
}

// bestSplit scans every feature's sorted values, evaluating the weighted gini
// of a split at each midpoint between distinct adjacent values.
func bestSplit(features [][]float64, labels []int, indices []int) (bestFeature int, bestThreshold float64, found bool) {
	columns := len(features[indices[0]])
	total := len(indices)
	bestGini := 2.0

	type pair struct {
		value float64
		label int
	}
	pairs := make([]pair, total)

	for feature := 0; feature < columns; feature++ {
		for i, idx := range indices {
			pairs[i] = pair{value: features[idx][feature], label: labels[idx]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].value < pairs[b].value })

		leftCounts := make(map[int]int)
		rightCounts := make(map[int]int)
		for _, p := range pairs {
			rightCounts[p.label]++
		}

		for i := 0; i < total-1; i++ {
			leftCounts[pairs[i].label]++
			rightCounts[pairs[i].label]--
			if pairs[i].value == pairs[i+1].value {
				continue
			}
			nLeft := i + 1
			nRight := total - nLeft
			gini := float64(nLeft)/float64(total)*giniImpurity(leftCounts, nLeft) +
				float64(nRight)/float64(total)*giniImpurity(rightCounts, nRight)
			if gini < bestGini {
				bestGini = gini
				bestFeature = feature
				bestThreshold = (pairs[i].value + pairs[i+1].value) / 2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}
