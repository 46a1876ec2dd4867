package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fxmig/markup"
)

const DefaultConcurrency = 5

// Phase of the document conversion.
type Phase int

const (
	PhasePrepare Phase = iota
	PhaseApply
)

func (p Phase) String() string {
	if p == PhasePrepare {
		return "prepare"
	}
	return "apply"
}

// Progress is reported once for every element in every phase.
type Progress struct {
	Phase     Phase
	Processed int
	Total     int
}

func (p Progress) Percentage() int {
	if p.Total == 0 {
		return 100
	}
	return (p.Processed*100 + p.Total/2) / p.Total
}

type ProgressFunc func(Progress)

// Result summarizes single document conversion.
type Result struct {
	Elements  int   // elements with convertible attributes
	Converted int   // attributes converted and removed
	Skipped   int   // attributes left in place
	Errors    error // per attribute and per element failures, see multierr.Errors
}

// Pipeline converts all layout attributes of a document in two phases:
// contexts for all elements are prepared before any element is modified.
type Pipeline struct {
	reg         *Registry
	log         *zap.Logger
	concurrency int
	progress    ProgressFunc
}

type PipelineOption func(*Pipeline)

// WithConcurrency sets maximum number of elements processed simultaneously.
func WithConcurrency(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithProgress sets function to receive progress notifications. It is called
// synchronously and never concurrently.
func WithProgress(fn ProgressFunc) PipelineOption {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

func NewPipeline(reg *Registry, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		reg:         reg,
		log:         reg.Logger().Named("pipeline"),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type contextKey struct {
	index int
	attr  string // raw attribute name
}

// run keeps state shared by element tasks of a single Run.
type run struct {
	root     *markup.Node
	elements []*markup.Node

	mu        sync.Mutex
	contexts  map[contextKey]Context
	errs      error
	converted int
	skipped   int
	processed int
}

func (r *run) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = multierr.Append(r.errs, err)
}

// Run converts document rooted at root in place. Returned error is only set
// when ctx was cancelled, conversion failures are reported in Result.
func (p *Pipeline) Run(ctx context.Context, root *markup.Node) (Result, error) {
	r := &run{
		root:     root,
		elements: LocateElements(root, p.reg.AttributeNames()),
		contexts: make(map[contextKey]Context),
	}
	p.log.Debug("Elements located", zap.Int("count", len(r.elements)))

	res := Result{Elements: len(r.elements)}
	if len(r.elements) == 0 {
		return res, nil
	}

	if err := p.phase(ctx, r, PhasePrepare, p.prepareElement); err != nil {
		return res, err
	}
	if err := p.phase(ctx, r, PhaseApply, p.applyElement); err != nil {
		return res, err
	}

	res.Converted, res.Skipped, res.Errors = r.converted, r.skipped, r.errs
	return res, nil
}

// phase runs fn for every element with limited concurrency and returns after
// all of them are done.
func (p *Pipeline) phase(ctx context.Context, r *run, ph Phase, fn func(*run, int, *markup.Node)) error {
	r.processed = 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, el := range r.elements {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p.element(r, i, el, fn)
			p.report(r, ph)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// element isolates failures of a single element from its siblings.
func (p *Pipeline) element(r *run, i int, el *markup.Node, fn func(*run, int, *markup.Node)) {
	defer func() {
		if v := recover(); v != nil {
			p.log.Error("Element conversion aborted", zap.Int("element", i), zap.String("tag", el.Tag), zap.Any("panic", v))
			r.fail(fmt.Errorf("element %d <%s>: conversion panicked: %v", i, el.Tag, v))
		}
	}()
	fn(r, i, el)
}

func (p *Pipeline) report(r *run, ph Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed++
	if p.progress == nil {
		return
	}
	defer func() {
		if v := recover(); v != nil {
			p.log.Warn("Progress notification failed", zap.Any("panic", v))
		}
	}()
	p.progress(Progress{Phase: ph, Processed: r.processed, Total: len(r.elements)})
}

func (p *Pipeline) prepareElement(r *run, i int, el *markup.Node) {
	for _, key := range el.AttrKeys() {
		if !p.reg.CanConvert(key, strings.Contains(key, ".")) {
			continue
		}
		base, _ := SplitAttribute(key)
		cctx, err := p.reg.Prepare(base, r.root, el)
		if err != nil {
			r.fail(fmt.Errorf("element %d <%s> attribute %q: %w", i, el.Tag, key, err))
			continue
		}
		if IsPropertyBinding(key) {
			cctx.SetPropertyBinding(true)
		}

		r.mu.Lock()
		r.contexts[contextKey{index: i, attr: key}] = cctx
		r.mu.Unlock()
	}
}

func (p *Pipeline) applyElement(r *run, i int, el *markup.Node) {
	var converted, skipped int
	defer func() {
		r.mu.Lock()
		r.converted += converted
		r.skipped += skipped
		r.mu.Unlock()
	}()

	for _, key := range el.AttrKeys() {
		if !p.reg.CanConvert(key, strings.Contains(key, ".")) {
			continue
		}
		base, suffix := SplitAttribute(key)

		bp, err := ClassifyBreakpoint(suffix)
		if err != nil {
			p.log.Warn("Attribute skipped", zap.String("attribute", key), zap.Error(err))
			r.fail(fmt.Errorf("element %d <%s> attribute %q: %w", i, el.Tag, key, err))
			skipped++
			continue
		}

		r.mu.Lock()
		cctx, ok := r.contexts[contextKey{index: i, attr: key}]
		r.mu.Unlock()
		if !ok {
			cctx = &BaseContext{}
		}

		value, _ := el.Attr(key)
		if cctx.PropertyBinding() {
			lit, ok := BindingLiteral(value)
			if !ok {
				p.log.Warn("Property binding expression could not be converted statically, attribute left in place",
					zap.String("attribute", key), zap.String("expression", value))
				skipped++
				continue
			}
			value = lit
		}

		if err := p.reg.Convert(base, SplitValues(value), el, bp, cctx); err != nil {
			r.fail(fmt.Errorf("element %d <%s> attribute %q: %w", i, el.Tag, key, err))
			skipped++
			continue
		}
		el.RemoveAttr(key)
		converted++
	}
}
