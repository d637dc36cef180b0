package tree

import (
	"fmt"
	"strings"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

type Strategy uint8

const (
	StrategyBST Strategy = iota
	StrategyAVL
	StrategyRedBlack
	StrategySplay
	_strategyMax
)

func (s Strategy) String() string {
	switch s {
	case StrategyBST:
		return "bst"
	case StrategyAVL:
		return "avl"
	case StrategyRedBlack:
		return "redblack"
	case StrategySplay:
		return "splay"
	default:
	}
	return "unknown"
}

// ParseStrategy maps a configuration value onto a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bst", "plain":
		return StrategyBST, nil
	case "avl":
		return StrategyAVL, nil
	case "redblack", "red-black", "rb", "rbtree":
		return StrategyRedBlack, nil
	case "splay":
		return StrategySplay, nil
	default:
	}
	return _strategyMax, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

func newBalancer[E any](s Strategy) Balancer[E] {
	switch s {
	case StrategyAVL:
		return &avlBalancer[E]{}
	case StrategyRedBlack:
		return &rbBalancer[E]{}
	case StrategySplay:
		return &splayBalancer[E]{}
	default:
	}
	return noopBalancer[E]{}
}

var _ Balancer[struct{}] = noopBalancer[struct{}]{}

// noopBalancer keeps the plain binary search tree shape.
type noopBalancer[E any] struct{}

func (noopBalancer[E]) AfterInsert(*BinaryTree[E], Position[E]) {}
func (noopBalancer[E]) AfterDelete(*BinaryTree[E], Position[E]) {}
func (noopBalancer[E]) AfterAccess(*BinaryTree[E], Position[E]) {}

type TreeMapOption[K infra.OrderedKey, V any] func(*TreeMap[K, V])

func WithTreeMapComparator[K infra.OrderedKey, V any](cmp infra.OrderedKeyComparator[K]) TreeMapOption[K, V] {
	return func(m *TreeMap[K, V]) {
		if cmp != nil {
			m.keyCompare = cmp
		}
	}
}

// WithTreeMapDesc orders keys from greatest to least.
func WithTreeMapDesc[K infra.OrderedKey, V any]() TreeMapOption[K, V] {
	return func(m *TreeMap[K, V]) {
		m.isDesc = true
	}
}

// WithTreeMapRemoveBorrowSucc makes a two children delete borrow the in-order
// successor instead of the predecessor.
func WithTreeMapRemoveBorrowSucc[K infra.OrderedKey, V any]() TreeMapOption[K, V] {
	return func(m *TreeMap[K, V]) {
		m.isRmBorrowSucc = true
	}
}

func WithTreeMapLogger[K infra.OrderedKey, V any](logger xlog.XLogger) TreeMapOption[K, V] {
	return func(m *TreeMap[K, V]) {
		m.logger = logger
	}
}

// WithTreeMapStats publishes otel metrics under the meter xtree/<name>.
func WithTreeMapStats[K infra.OrderedKey, V any](name string) TreeMapOption[K, V] {
	return func(m *TreeMap[K, V]) {
		if len(strings.TrimSpace(name)) == 0 {
			name = "default"
		}
		m.statsName = name
	}
}

// WithTreeMapBalancer installs a custom shape policy.
func WithTreeMapBalancer[K infra.OrderedKey, V any](balancer Balancer[Item[K, V]]) TreeMapOption[K, V] {
	return func(m *TreeMap[K, V]) {
		if balancer != nil {
			m.balancer = balancer
		}
	}
}

func newTreeMap[K infra.OrderedKey, V any](s Strategy, opts ...TreeMapOption[K, V]) *TreeMap[K, V] {
	m := &TreeMap[K, V]{
		balancer:   newBalancer[Item[K, V]](s),
		keyCompare: infra.AscKeyComparator[K],
	}
	for _, o := range opts {
		o(m)
	}
	if m.isDesc {
		m.keyCompare = m.keyCompare.Reverse()
	}
	treeOpts := make([]BinaryTreeOption[Item[K, V]], 0, 2)
	if m.logger != nil {
		treeOpts = append(treeOpts, WithBinaryTreeLogger[Item[K, V]](m.logger))
	}
	if m.statsName != "" {
		treeOpts = append(treeOpts, WithBinaryTreeStats[Item[K, V]](m.statsName))
	}
	m.tree = NewBinaryTree[Item[K, V]](treeOpts...)
	return m
}

// NewTreeMap builds an unbalanced binary search tree map.
func NewTreeMap[K infra.OrderedKey, V any](opts ...TreeMapOption[K, V]) *TreeMap[K, V] {
	return newTreeMap[K, V](StrategyBST, opts...)
}

func NewAVLTreeMap[K infra.OrderedKey, V any](opts ...TreeMapOption[K, V]) *TreeMap[K, V] {
	return newTreeMap[K, V](StrategyAVL, opts...)
}

func NewRBTreeMap[K infra.OrderedKey, V any](opts ...TreeMapOption[K, V]) *TreeMap[K, V] {
	return newTreeMap[K, V](StrategyRedBlack, opts...)
}

func NewSplayTreeMap[K infra.OrderedKey, V any](opts ...TreeMapOption[K, V]) *TreeMap[K, V] {
	return newTreeMap[K, V](StrategySplay, opts...)
}

func NewTreeMapWithStrategy[K infra.OrderedKey, V any](s Strategy, opts ...TreeMapOption[K, V]) (*TreeMap[K, V], error) {
	if s >= _strategyMax {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, s)
	}
	return newTreeMap[K, V](s, opts...), nil
}
