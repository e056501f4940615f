// Package lexcache keeps tokenization of a live document up to date without
// rescanning it from the start.
//
// A Cache owns a frontier, the position up to which the document has been
// tokenized with exact state, a sparse list of tokenizer state checkpoints
// taken every few lines, the tokens behind the frontier, and a window of
// recently requested decorations. Queries resume from the nearest checkpoint;
// background requests push the frontier forward in bounded time slices on a
// schedule.Scheduler. Edits applied with Apply invalidate only what follows
// the first changed line.
//
// All methods are safe for concurrent use. Background work runs under the
// same lock as queries, so a query never observes a half-applied edit.
package lexcache

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dshills/textcore/internal/engine/text"
	"github.com/dshills/textcore/internal/syntax/schedule"
	"github.com/dshills/textcore/internal/syntax/stream"
)

// Token is a tagged range of the document in absolute byte offsets.
type Token struct {
	From int
	To   int
	Tag  string
}

// Decoration is a styled range handed to rendering. Its Tag selects the
// style.
type Decoration = Token

// Stats describes the cache contents and the work it has done.
type Stats struct {
	Frontier     int
	FrontierLine int
	Checkpoints  int
	Tokens       int
	Pending      int

	Slices         int
	LinesScanned   int
	Resumes        int
	Approximations int
	Invalidations  int
	Purged         int

	// LastResumeLine is the line the most recent exact resume started
	// scanning from.
	LastResumeLine int
}

type checkpoint[S any] struct {
	pos   int
	line  int
	state S
}

// window is the most recently computed decoration range. Its bounds are
// line aligned.
type window struct {
	from, to int
	decos    []Decoration
	approx   bool
}

// Cache is an incremental lexical cache for one document and one parser.
type Cache[S stream.State[S]] struct {
	parser *stream.Parser[S]
	opts   options
	logger *slog.Logger
	sched  schedule.Scheduler
	stop   context.CancelFunc

	mu          sync.Mutex
	doc         text.Text
	tabSize     int
	checkpoints []checkpoint[S]

	frontierPos   int
	frontierLine  int
	frontierState S
	hasLive       bool

	tokens   []Token
	window   *window
	requests []*Request
	timer    schedule.Timer
	gen      uint64

	err    error
	closed bool
	stats  Stats
}

// New creates a cache for doc.
func New[S stream.State[S]](doc text.Text, parser *stream.Parser[S], opts ...Option) *Cache[S] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Cache[S]{
		parser:       parser,
		opts:         o,
		logger:       o.logger,
		sched:        o.sched,
		doc:          doc,
		tabSize:      o.tabSize,
		frontierLine: 1,
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	c.logger = c.logger.With("mode", parser.Name())
	if c.sched == nil {
		loop := schedule.NewLoop(schedule.WithLoopLogger(c.logger))
		ctx, cancel := context.WithCancel(context.Background())
		go func() { _ = loop.Run(ctx) }()
		c.sched, c.stop = loop, cancel
	}
	return c
}

// Doc returns the document the cache currently describes.
func (c *Cache[S]) Doc() text.Text {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

// Frontier returns the position and line number up to which the document
// has been tokenized.
func (c *Cache[S]) Frontier() (pos, line int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return min(c.frontierPos, c.doc.Len()), c.frontierLine
}

// Checkpoints returns the positions of the stored checkpoints in increasing
// order.
func (c *Cache[S]) Checkpoints() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.checkpoints))
	for i, cp := range c.checkpoints {
		out[i] = cp.pos
	}
	return out
}

// Stats returns a snapshot of the cache statistics.
func (c *Cache[S]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Frontier = min(c.frontierPos, c.doc.Len())
	s.FrontierLine = c.frontierLine
	s.Checkpoints = len(c.checkpoints)
	s.Tokens = len(c.tokens)
	s.Pending = len(c.requests)
	return s
}

// Pending returns the number of requests not yet completed or purged.
func (c *Cache[S]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

// Err returns the tokenizer failure that stopped the cache, if any.
func (c *Cache[S]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close stops background work. Pending requests are left incomplete.
func (c *Cache[S]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopTimer()
	c.requests = nil
	if c.stop != nil {
		c.stop()
	}
}

func (c *Cache[S]) usable() error {
	if c.closed {
		return ErrClosed
	}
	return c.err
}

// runner scans lines forward from a known state.
type runner[S any] struct {
	state  S
	pos    int
	line   int
	exact  bool
	cursor *stream.LineCursor
}

// resume returns a runner at the latest exact state at or before line
// target: a checkpoint, the live frontier state or the document start. When
// allowApprox is set and that state is too far back, the runner instead
// starts at target with a fresh start state and is marked inexact.
func (c *Cache[S]) resume(target int, allowApprox bool) (*runner[S], error) {
	basePos, baseLine := 0, 1
	var base S
	haveBase, live := false, false

	i := sort.Search(len(c.checkpoints), func(i int) bool { return c.checkpoints[i].line > target }) - 1
	if i >= 0 {
		cp := c.checkpoints[i]
		basePos, baseLine, base, haveBase = cp.pos, cp.line, cp.state, true
	}
	if c.hasLive && c.frontierLine <= target && c.frontierLine >= baseLine {
		basePos, baseLine, base, haveBase, live = c.frontierPos, c.frontierLine, c.frontierState, true, true
	}

	if allowApprox && target-baseLine > c.opts.stride {
		line, err := c.doc.Line(target)
		if err != nil {
			return nil, err
		}
		if line.Start-basePos > c.opts.maxScan {
			c.stats.Approximations++
			c.logger.Debug("approximate resume", "line", target, "from", baseLine)
			return &runner[S]{
				state:  c.parser.StartState(),
				pos:    line.Start,
				line:   target,
				cursor: stream.NewLineCursor(c.doc, line.Start, c.tabSize),
			}, nil
		}
	}

	state := c.parser.StartState()
	if haveBase {
		state = c.parser.CopyState(base)
	}
	if !live {
		c.stats.Resumes++
		c.stats.LastResumeLine = baseLine
	}
	return &runner[S]{
		state:  state,
		pos:    basePos,
		line:   baseLine,
		exact:  true,
		cursor: stream.NewLineCursor(c.doc, basePos, c.tabSize),
	}, nil
}

// advance tokenizes lines until the runner reaches stopLine, the document
// ends, or the deadline passes. Exact runs store checkpoints at the stride
// and, while they are at the frontier, append to the token list and carry
// the frontier along. collect, when set, receives every token scanned.
func (c *Cache[S]) advance(r *runner[S], stopLine int, deadline time.Time, collect func(Token)) error {
	for r.line < stopLine {
		s, ok := r.cursor.Next()
		if !ok {
			break
		}
		atFrontier := r.exact && r.pos == c.frontierPos && r.line == c.frontierLine
		lineStart := r.pos
		err := c.parser.ReadLine(s, r.state, func(t stream.Token) {
			tok := Token{From: lineStart + t.From, To: lineStart + t.To, Tag: t.Tag}
			if atFrontier {
				c.tokens = append(c.tokens, tok)
			}
			if collect != nil {
				collect(tok)
			}
		})
		if err != nil {
			return c.fail(fmt.Errorf("line %d: %w", r.line, err))
		}

		r.pos += len(s.String()) + 1
		r.line++
		c.stats.LinesScanned++
		if r.exact && (r.line-1)%c.opts.stride == 0 {
			c.storeCheckpoint(r.pos, r.line, r.state)
		}
		if atFrontier {
			c.frontierPos, c.frontierLine = r.pos, r.line
			c.frontierState, c.hasLive = r.state, true
		}
		if !deadline.IsZero() && !c.sched.Now().Before(deadline) {
			break
		}
	}
	return nil
}

// storeCheckpoint records a copy of state at the start of line.
func (c *Cache[S]) storeCheckpoint(pos, line int, state S) {
	i, found := slices.BinarySearchFunc(c.checkpoints, pos, func(cp checkpoint[S], pos int) int {
		return cp.pos - pos
	})
	if found {
		return
	}
	c.checkpoints = slices.Insert(c.checkpoints, i, checkpoint[S]{pos: pos, line: line, state: c.parser.CopyState(state)})
}

// fail records a tokenizer fault. Every pending request completes with the
// error and every later query returns it.
func (c *Cache[S]) fail(err error) error {
	c.err = fmt.Errorf("lexcache: %w", err)
	c.logger.Error("tokenizer fault", "err", err)
	for _, req := range c.requests {
		if !req.Abandoned() {
			req.complete(c.err)
		}
	}
	c.requests = nil
	c.stopTimer()
	return c.err
}

func (c *Cache[S]) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

// tokensIn returns the frontier tokens starting in [from, to).
func (c *Cache[S]) tokensIn(from, to int) []Token {
	i := sort.Search(len(c.tokens), func(i int) bool { return c.tokens[i].From >= from })
	j := sort.Search(len(c.tokens), func(i int) bool { return c.tokens[i].From >= to })
	return slices.Clone(c.tokens[i:j])
}

// tokensForLines returns the tokens of lines [fromLine, toLine), served from
// the frontier token list when possible. The boolean reports whether the
// result came from an approximate state.
func (c *Cache[S]) tokensForLines(fromLine, toLine int) ([]Token, bool, error) {
	if toLine <= fromLine {
		return nil, false, nil
	}
	first, err := c.doc.Line(fromLine)
	if err != nil {
		return nil, false, err
	}
	last, err := c.doc.Line(toLine - 1)
	if err != nil {
		return nil, false, err
	}
	if last.End < c.frontierPos {
		return c.tokensIn(first.Start, last.End+1), false, nil
	}

	r, err := c.resume(fromLine, true)
	if err != nil {
		return nil, false, err
	}
	if err := c.advance(r, fromLine, time.Time{}, nil); err != nil {
		return nil, false, err
	}
	var out []Token
	if err := c.advance(r, toLine, time.Time{}, func(t Token) { out = append(out, t) }); err != nil {
		return nil, false, err
	}
	return out, !r.exact, nil
}
