package core

import "sort"

// DefaultLeafSize is the leaf threshold used when the scene does not
// configure one.
const DefaultLeafSize = 4

// bvhNode is one node of the array-backed tree. Leaves hold an inclusive
// range into the permuted shape slice; internal nodes hold child indices.
type bvhNode struct {
	box         AABB
	left, right int32 // child node indices, -1 for leaves
	start, end  int32 // leaf shape range [start, end)
}

func (n *bvhNode) isLeaf() bool {
	return n.left < 0
}

// BVH is a bounding volume hierarchy over a fixed set of shapes. It is built
// once per scene and immutable afterwards; both query modes are safe for
// concurrent use from multiple workers.
type BVH struct {
	nodes  []bvhNode
	shapes []Shape // permuted copy owned by the tree
}

// NewBVH builds a BVH over the given shapes by recursive median split along
// the largest-extent axis. leafSize caps the number of shapes per leaf;
// values below 1 fall back to DefaultLeafSize. The input slice is not
// modified.
func NewBVH(shapes []Shape, leafSize int) *BVH {
	if leafSize < 1 {
		leafSize = DefaultLeafSize
	}

	b := &BVH{shapes: make([]Shape, len(shapes))}
	copy(b.shapes, shapes)

	if len(b.shapes) == 0 {
		return b
	}

	b.nodes = make([]bvhNode, 0, 2*len(shapes))
	b.build(0, int32(len(b.shapes)), leafSize)
	return b
}

// build creates the subtree over shapes[start:end) and returns its node index
func (b *BVH) build(start, end int32, leafSize int) int32 {
	box := b.shapes[start].BoundingBox()
	for i := start + 1; i < end; i++ {
		box = box.Union(b.shapes[i].BoundingBox())
	}

	idx := int32(len(b.nodes))
	b.nodes = append(b.nodes, bvhNode{box: box, left: -1, right: -1, start: start, end: end})

	if int(end-start) <= leafSize {
		return idx
	}

	// Median split along the widest axis of the combined box. Zero-extent
	// boxes simply sort equal and still split by count.
	axis := box.LongestAxis()
	sub := b.shapes[start:end]
	sort.Slice(sub, func(i, j int) bool {
		return sub[i].BoundingBox().Center().Axis(axis) < sub[j].BoundingBox().Center().Axis(axis)
	})

	mid := start + (end-start)/2
	left := b.build(start, mid, leafSize)
	right := b.build(mid, end, leafSize)
	b.nodes[idx].left = left
	b.nodes[idx].right = right
	return idx
}

// Hit returns the closest intersection within [tMin, tMax], or false
func (b *BVH) Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	if len(b.nodes) == 0 {
		return nil, false
	}
	if _, ok := b.nodes[0].box.HitDistance(ray, tMin, tMax); !ok {
		return nil, false
	}
	return b.hitNode(0, ray, tMin, tMax)
}

// hitNode finds the closest hit below the given node, whose box has already
// been tested by the caller.
func (b *BVH) hitNode(idx int32, ray Ray, tMin, tMax float64) (*HitRecord, bool) {
	node := &b.nodes[idx]

	if node.isLeaf() {
		var closest *HitRecord
		closestSoFar := tMax
		for _, shape := range b.shapes[node.start:node.end] {
			if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
				closestSoFar = hit.T
				closest = hit
			}
		}
		return closest, closest != nil
	}

	// Descend into the nearer child first so the far subtree can be pruned
	// once a closer hit is known.
	near, far := node.left, node.right
	nearDist, nearOK := b.nodes[near].box.HitDistance(ray, tMin, tMax)
	if farDist, farOK := b.nodes[far].box.HitDistance(ray, tMin, tMax); farOK && (!nearOK || farDist < nearDist) {
		near, far = far, near
		nearOK = true
	}

	var closest *HitRecord
	closestSoFar := tMax

	if nearOK {
		if hit, ok := b.hitNode(near, ray, tMin, closestSoFar); ok {
			closestSoFar = hit.T
			closest = hit
		}
	}
	// The far child is retested against the narrowed range; a hit closer
	// than its entry distance prunes it entirely.
	if d, ok := b.nodes[far].box.HitDistance(ray, tMin, closestSoFar); ok && d <= closestSoFar {
		if hit, ok := b.hitNode(far, ray, tMin, closestSoFar); ok {
			closest = hit
		}
	}

	return closest, closest != nil
}

// AnyHit reports whether any shape intersects the ray within [tMin, tMax].
// It short-circuits on the first hit found and never looks for the closest
// one; this is the shadow query.
func (b *BVH) AnyHit(ray Ray, tMin, tMax float64) bool {
	if len(b.nodes) == 0 {
		return false
	}
	return b.anyHitNode(0, ray, tMin, tMax)
}

func (b *BVH) anyHitNode(idx int32, ray Ray, tMin, tMax float64) bool {
	node := &b.nodes[idx]
	if !node.box.Hit(ray, tMin, tMax) {
		return false
	}

	if node.isLeaf() {
		for _, shape := range b.shapes[node.start:node.end] {
			if _, ok := shape.Hit(ray, tMin, tMax); ok {
				return true
			}
		}
		return false
	}

	return b.anyHitNode(node.left, ray, tMin, tMax) ||
		b.anyHitNode(node.right, ray, tMin, tMax)
}

// stats about the tree shape, used by tests
type bvhStats struct {
	totalNodes  int
	leafNodes   int
	maxDepth    int
	totalShapes int
}

func (b *BVH) getStats() bvhStats {
	stats := bvhStats{}
	if len(b.nodes) > 0 {
		b.collectStats(0, 0, &stats)
	}
	return stats
}

func (b *BVH) collectStats(idx int32, depth int, stats *bvhStats) {
	node := &b.nodes[idx]
	stats.totalNodes++
	if depth > stats.maxDepth {
		stats.maxDepth = depth
	}
	if node.isLeaf() {
		stats.leafNodes++
		stats.totalShapes += int(node.end - node.start)
		return
	}
	b.collectStats(node.left, depth+1, stats)
	b.collectStats(node.right, depth+1, stats)
}
