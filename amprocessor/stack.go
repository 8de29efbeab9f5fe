package amprocessor

import (
	"errors"
	"strconv"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// extra slots above the declared push count
const StackMargin = 10

var (
	ErrStackUnderflow = errors.New("aperture macro stack underflow")
	ErrStackOverflow  = errors.New("aperture macro stack overflow")
)

// Stack is the bounded value stack of the macro interpreter
type Stack struct {
	values *arraystack.Stack
	limit  int
}

func NewStack(capacityHint int) *Stack {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Stack{values: arraystack.New(), limit: capacityHint + StackMargin}
}

func (s *Stack) Push(v float64) error {
	if s.values.Size() >= s.limit {
		return ErrStackOverflow
	}
	s.values.Push(v)
	return nil
}

func (s *Stack) Pop() (float64, error) {
	v, ok := s.values.Pop()
	if !ok {
		return 0, ErrStackUnderflow
	}
	return v.(float64), nil
}

func (s *Stack) Depth() int {
	return s.values.Size()
}

func (s *Stack) Limit() int {
	return s.limit
}

func (s *Stack) Reset() {
	s.values.Clear()
}

// Values returns the stack contents, bottom first
func (s *Stack) Values() []float64 {
	lifo := s.values.Values()
	retVal := make([]float64, len(lifo))
	for i := range lifo {
		retVal[len(lifo)-1-i] = lifo[i].(float64)
	}
	return retVal
}

func (s *Stack) String() string {
	retVal := "Stack[" + strconv.Itoa(s.Depth()) + "/" + strconv.Itoa(s.limit) + "]:"
	for _, v := range s.Values() {
		retVal += " " + strconv.FormatFloat(v, 'g', -1, 64)
	}
	return retVal
}
