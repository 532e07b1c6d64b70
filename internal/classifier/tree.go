package classifier

// node is one entry of a flattened decision tree. Internal nodes send a
// vector left when x[Feature] <= splitThreshold, right otherwise.
type node struct {
	Feature int
	Left    int
	Right   int
	Label   int
	Support int
	Purity  float64
	Leaf    bool
}

// Features are binary, so any threshold in (0, 1) separates them.
const splitThreshold = 0.5

type tree struct {
	nodes    []node
	maxDepth int
}

func (t *tree) fit(X [][]float64, y []int, idx []int) {
	t.nodes = t.nodes[:0]
	t.build(X, y, idx, 0)
}

// build appends the subtree for idx in pre-order and returns its root index.
func (t *tree) build(X [][]float64, y []int, idx []int, depth int) int {
	label, count := majority(y, idx)
	pos := len(t.nodes)
	t.nodes = append(t.nodes, node{
		Feature: -1,
		Left:    -1,
		Right:   -1,
		Label:   label,
		Support: len(idx),
		Purity:  float64(count) / float64(len(idx)),
		Leaf:    true,
	})

	if count == len(idx) || (t.maxDepth > 0 && depth >= t.maxDepth) {
		return pos
	}

	feature, ok := bestSplit(X, y, idx)
	if !ok {
		return pos
	}

	left, right := partition(X, idx, feature)
	l := t.build(X, y, left, depth+1)
	r := t.build(X, y, right, depth+1)

	t.nodes[pos].Feature = feature
	t.nodes[pos].Left = l
	t.nodes[pos].Right = r
	t.nodes[pos].Leaf = false
	return pos
}

func (t *tree) leaf(x []float64) node {
	i := 0
	for {
		n := t.nodes[i]
		if n.Leaf {
			return n
		}
		if x[n.Feature] <= splitThreshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// bestSplit returns the feature with the lowest weighted Gini impurity whose
// split leaves both sides non-empty. Ties go to the lowest feature index.
func bestSplit(X [][]float64, y []int, idx []int) (int, bool) {
	best := -1
	bestImpurity := 0.0
	for f := range X[idx[0]] {
		left, right := partition(X, idx, f)
		if len(left) == 0 || len(right) == 0 {
			continue
		}
		imp := weightedGini(y, left, right)
		if best < 0 || imp < bestImpurity {
			best = f
			bestImpurity = imp
		}
	}
	return best, best >= 0
}

func partition(X [][]float64, idx []int, feature int) (left, right []int) {
	for _, i := range idx {
		if X[i][feature] <= splitThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}

func weightedGini(y []int, left, right []int) float64 {
	total := float64(len(left) + len(right))
	return float64(len(left))/total*gini(y, left) + float64(len(right))/total*gini(y, right)
}

func gini(y []int, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, i := range idx {
		counts[y[i]]++
	}
	// Integer arithmetic so equal splits compare equal whatever the map
	// iteration order.
	squares := 0
	for _, c := range counts {
		squares += c * c
	}
	n := len(idx)
	return 1 - float64(squares)/float64(n*n)
}

// majority returns the most frequent label in idx and its count. Ties go to
// the lowest label code.
func majority(y []int, idx []int) (int, int) {
	counts := make(map[int]int)
	for _, i := range idx {
		counts[y[i]]++
	}
	label, best := -1, -1
	for l, c := range counts {
		if c > best || (c == best && l < label) {
			label, best = l, c
		}
	}
	return label, best
}
