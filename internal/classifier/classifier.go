package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch is returned when a vector does not match the
	// trained feature count. Vectors are never truncated or padded.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrNotTrained is returned by Predict before Train succeeded.
	ErrNotTrained = errors.New("model not trained")
	// ErrEmptyTraining is returned when Train receives no records.
	ErrEmptyTraining = errors.New("no training records")
)

// holdoutEvery selects every third record for evaluation.
const holdoutEvery = 3

// Result holds the outcome of classifying a single symptom vector.
type Result struct {
	Label      int
	Confidence float64 // majority fraction of the training records in the leaf
}

// Evaluation describes the informational holdout run performed by Train.
type Evaluation struct {
	TrainSize   int
	HoldoutSize int
	Correct     int
	Accuracy    float64
}

// Classifier is a decision tree over binary symptom vectors. It is trained
// once and is safe for concurrent Predict calls afterwards.
type Classifier struct {
	MaxDepth int // 0 means grow until leaves are pure

	features int
	classes  int
	model    *tree
}

// New creates an untrained Classifier.
func New(maxDepth int) *Classifier {
	return &Classifier{MaxDepth: maxDepth}
}

// Train fits the classifier on X with integer labels y.
//
// Every third record is held out and scored against a tree fitted on the
// remaining two thirds; the resulting accuracy is reported only. The final
// model is fitted on all records so that every training label stays
// reachable.
func (c *Classifier) Train(X [][]float64, y []int) (Evaluation, error) {
	if len(X) == 0 {
		return Evaluation{}, ErrEmptyTraining
	}
	if len(X) != len(y) {
		return Evaluation{}, fmt.Errorf("features and labels size mismatch: %d vs %d", len(X), len(y))
	}
	features := len(X[0])
	if features == 0 {
		return Evaluation{}, fmt.Errorf("%w: zero-length feature vectors", ErrDimensionMismatch)
	}
	classes := 0
	for i := range X {
		if len(X[i]) != features {
			return Evaluation{}, fmt.Errorf("%w: record %d has %d features, want %d", ErrDimensionMismatch, i, len(X[i]), features)
		}
		if y[i] < 0 {
			return Evaluation{}, fmt.Errorf("negative label %d at record %d", y[i], i)
		}
		if y[i]+1 > classes {
			classes = y[i] + 1
		}
	}

	var train, holdout []int
	for i := range X {
		if i%holdoutEvery == holdoutEvery-1 {
			holdout = append(holdout, i)
		} else {
			train = append(train, i)
		}
	}

	eval := Evaluation{TrainSize: len(train), HoldoutSize: len(holdout)}
	if len(holdout) > 0 {
		holdoutTree := &tree{maxDepth: c.MaxDepth}
		holdoutTree.fit(X, y, train)
		for _, i := range holdout {
			if holdoutTree.leaf(X[i]).Label == y[i] {
				eval.Correct++
			}
		}
		eval.Accuracy = float64(eval.Correct) / float64(len(holdout))
	}

	all := make([]int, len(X))
	for i := range all {
		all[i] = i
	}
	final := &tree{maxDepth: c.MaxDepth}
	final.fit(X, y, all)

	c.features = features
	c.classes = classes
	c.model = final
	return eval, nil
}

// Predict returns the label code of the most probable class for vector.
func (c *Classifier) Predict(vector []float64) (int, error) {
	r, err := c.PredictWithConfidence(vector)
	if err != nil {
		return 0, err
	}
	return r.Label, nil
}

// PredictWithConfidence returns the best label and its leaf confidence.
func (c *Classifier) PredictWithConfidence(vector []float64) (Result, error) {
	if c.model == nil {
		return Result{}, ErrNotTrained
	}
	if len(vector) != c.features {
		return Result{}, fmt.Errorf("%w: got %d features, want %d", ErrDimensionMismatch, len(vector), c.features)
	}
	n := c.model.leaf(vector)
	return Result{Label: n.Label, Confidence: n.Purity}, nil
}

// Features returns the trained vector length, 0 before training.
func (c *Classifier) Features() int {
	return c.features
}

// Classes returns one more than the highest label code seen in training.
func (c *Classifier) Classes() int {
	return c.classes
}

// Depth returns the depth of the trained tree.
func (c *Classifier) Depth() int {
	if c.model == nil {
		return 0
	}
	return c.model.depth(0)
}

func (t *tree) depth(i int) int {
	n := t.nodes[i]
	if n.Leaf {
		return 0
	}
	return 1 + max(t.depth(n.Left), t.depth(n.Right))
}
