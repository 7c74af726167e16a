// Copyright 2025 Google LLC
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
	"slices"

	"github.com/gx-org/tegraph/base/ordered"
	"github.com/gx-org/tegraph/te"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DAG is a linearized graph of compute operations.
type DAG struct {
	// Ops are the compute operations reachable from the roots.
	Ops []*te.ComputeOp

	consumers *ordered.Map[te.ID, []*te.ComputeOp]
}

// Consumers returns the compute operations reading an output of op.
func (d *DAG) Consumers(op te.Operation) []*te.ComputeOp {
	if op == nil {
		return nil
	}
	cons, _ := d.consumers.Load(op.ID())
	return cons
}

// ConsumerMap maps the ID of every compute operation of the DAG to its consumers.
// Keys are ordered by producers first. Every compute operation has a key, including
// the ones without consumers, and a consumer is listed once per producer even when
// it reads several of its outputs.
func (d *DAG) ConsumerMap() *ordered.Map[te.ID, []*te.ComputeOp] {
	return d.consumers
}

type dagFrame struct {
	op     *te.ComputeOp
	inputs []te.Tensor
	next   int
	linked map[te.ID]bool
}

type dagSerializer struct {
	stack     []*dagFrame
	onStack   map[te.ID]bool
	visited   map[te.ID]bool
	ops       []*te.ComputeOp
	consumers *ordered.Map[te.ID, []*te.ComputeOp]
}

func (s *dagSerializer) push(op *te.ComputeOp) {
	s.stack = append(s.stack, &dagFrame{
		op:     op,
		inputs: op.InputTensors(),
		linked: make(map[te.ID]bool),
	})
	s.onStack[op.ID()] = true
}

func (s *dagSerializer) pop() {
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	delete(s.onStack, top.op.ID())
	s.ops = append(s.ops, top.op)
	if !s.consumers.Has(top.op.ID()) {
		s.consumers.Store(top.op.ID(), nil)
	}
	s.visited[top.op.ID()] = true
}

func (s *dagSerializer) link(producer, consumer *te.ComputeOp) {
	s.consumers.Update(producer.ID(), func(cons []*te.ComputeOp) []*te.ComputeOp {
		return append(cons, consumer)
	})
}

// step processes the next input of the operation at the top of the stack.
func (s *dagSerializer) step() error {
	top := s.stack[len(s.stack)-1]
	if top.next == len(top.inputs) {
		s.pop()
		return nil
	}
	input, ok := top.inputs[top.next].Compute()
	if !ok {
		// Placeholders end the descent.
		top.next++
		return nil
	}
	id := input.ID()
	if s.onStack[id] {
		return errors.Wrapf(ErrCycle, "operation %s reads %s", top.op.Name(), input.Name())
	}
	if !s.visited[id] {
		s.push(input)
		return nil
	}
	top.next++
	if !top.linked[id] {
		top.linked[id] = true
		s.link(input, top.op)
	}
	return nil
}

func (s *dagSerializer) visit(root *te.ComputeOp) error {
	if s.visited[root.ID()] {
		return nil
	}
	s.push(root)
	for len(s.stack) > 0 {
		if err := s.step(); err != nil {
			return err
		}
	}
	return nil
}

// SerializeComputeDAG linearizes the compute operations reachable from roots.
// Operations are listed after all the operations they read from, unless outputFirst
// is true in which case the order is reversed.
// Roots that are not compute operations are skipped.
func SerializeComputeDAG(roots []te.Operation, outputFirst bool) (*DAG, error) {
	s := &dagSerializer{
		onStack:   make(map[te.ID]bool),
		visited:   make(map[te.ID]bool),
		consumers: ordered.NewMap[te.ID, []*te.ComputeOp](),
	}
	for _, root := range roots {
		cop, ok := root.(*te.ComputeOp)
		if !ok || cop == nil {
			log.Debugf("skipping root %s: not a compute operation", opName(root))
			continue
		}
		if err := s.visit(cop); err != nil {
			return nil, err
		}
	}
	if outputFirst {
		slices.Reverse(s.ops)
	}
	log.Debugf("linearized %d compute operations from %d roots", len(s.ops), len(roots))
	return &DAG{Ops: s.ops, consumers: s.consumers}, nil
}
