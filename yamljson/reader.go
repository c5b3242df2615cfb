// Package yamljson parses a restricted subset of YAML into a stream of
// JSON-equivalent structural events: StartObject, EndObject, StartArray,
// EndArray, PropertyName, String and a terminal End. Block mapping and
// sequence structure is inferred from indentation with one token of
// lookahead. All scalars are strings; anchors, aliases and flow
// collections are out of scope, and tags are lexed but ignored.
//
// The stream is always well-formed: every StartObject/StartArray has a
// matching end event before End, with empty strings synthesized where
// the input omitted content.
package yamljson

import (
	"io"
	"iter"

	"github.com/FileMeta/Yaml/yamltok"
)

type frameKind int

const (
	mappingFrame frameKind = iota
	sequenceFrame
)

// frame records an open container and the indent of its owner (the key
// or '-' that introduced it), not of its members.
type frame struct {
	kind      frameKind
	enclosing int
}

// Reader translates YAML text into events, pulled one at a time with
// Next.
type Reader struct {
	src  io.Reader
	tok  *yamltok.Tokenizer
	opts Options

	stack []frame
	// cur is the indent at which the current container's members start;
	// -1 at the root.
	cur int
	// queue holds events already decided but not yet returned; a single
	// lookahead decision can emit several (a dedent closes one frame per
	// level).
	queue []Event
	// last is the kind of the most recently enqueued event.
	last EventKind

	t       yamltok.Token
	haveTok bool

	diags   []Diagnostic
	err     error
	started bool
	done    bool
}

// NewReader reads YAML from r. The reader owns the token stream; no
// other component may touch the source while it is in use.
func NewReader(r io.Reader, opts Options) *Reader {
	rd := &Reader{src: r, opts: opts, cur: -1, last: End}
	rd.tok = yamltok.New(yamltok.NewReader(r), yamltok.Config{
		IgnoreTextOutsideDocumentMarkers: opts.IgnoreTextOutsideDocumentMarkers,
		AcceptContentOnStartDocumentLine: opts.AcceptContentOnStartDocumentLine,
		Report: func(d yamltok.Diag) {
			rd.record(Diagnostic{Line: d.Line, Col: d.Col, Msg: d.Msg})
		},
	})
	return rd
}

// Next returns the next event. After the terminal End event it keeps
// returning End. Unless Options.KeepGoing is set, the first diagnostic
// is returned as an error and parsing stops.
func (r *Reader) Next() (Event, error) {
	for {
		if r.err != nil {
			return Event{Kind: End}, r.err
		}
		if len(r.queue) > 0 {
			e := r.queue[0]
			r.queue = r.queue[1:]
			return e, nil
		}
		if r.done {
			return Event{Kind: End}, nil
		}
		r.step()
	}
}

// Events iterates the event stream, stopping after End or on the first
// error.
func (r *Reader) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			e, err := r.Next()
			if err != nil {
				return
			}
			if !yield(e) {
				return
			}
			if e.Kind == End {
				return
			}
		}
	}
}

// Err returns the first diagnostic, or nil.
func (r *Reader) Err() error {
	if len(r.diags) == 0 {
		return nil
	}
	return r.diags[0]
}

// ErrorOccurred reports whether any diagnostic was recorded.
func (r *Reader) ErrorOccurred() bool { return len(r.diags) > 0 }

// Diagnostics returns all recorded diagnostics in occurrence order.
func (r *Reader) Diagnostics() []Diagnostic { return r.diags }

// Close releases the reader. The underlying source is closed only when
// Options.CloseInput is set and the source implements io.Closer.
func (r *Reader) Close() error {
	if r.opts.CloseInput {
		if c, ok := r.src.(io.Closer); ok {
			return c.Close()
		}
	}
	return nil
}

func (r *Reader) record(d Diagnostic) {
	r.diags = append(r.diags, d)
	if r.err == nil && !r.opts.KeepGoing {
		r.err = d
	}
}

func (r *Reader) reportTok(t yamltok.Token, msg string) {
	r.record(Diagnostic{Line: t.Line, Col: t.Col, Msg: msg})
}

func (r *Reader) peekTok() yamltok.Token {
	if !r.haveTok {
		r.t = r.tok.Next()
		r.haveTok = true
	}
	return r.t
}

func (r *Reader) consume() { r.haveTok = false }

func (r *Reader) top() *frame {
	if len(r.stack) == 0 {
		return nil
	}
	return &r.stack[len(r.stack)-1]
}

func (r *Reader) enqueue(e Event) {
	r.queue = append(r.queue, e)
	r.last = e.Kind
	r.started = true
}

// expectingKey is true when the innermost frame is a mapping and the
// last event completed a key/value pair (or opened the mapping).
func (r *Reader) expectingKey() bool {
	top := r.top()
	if top == nil || top.kind != mappingFrame {
		return false
	}
	switch r.last {
	case StartObject, EndObject, EndArray, String:
		return true
	}
	return false
}

func (r *Reader) pushFrame(kind frameKind, indent int) {
	r.stack = append(r.stack, frame{kind: kind, enclosing: r.cur})
	if kind == mappingFrame {
		r.enqueue(Event{Kind: StartObject})
	} else {
		r.enqueue(Event{Kind: StartArray})
	}
	r.cur = indent
}

// enqueueKey emits the events for a mapping key appearing at the given
// indent, opening a nested mapping if the indent increased.
func (r *Reader) enqueueKey(t yamltok.Token, indent int, name string) {
	switch {
	case indent > r.cur:
		r.pushFrame(mappingFrame, indent)
		r.enqueue(Event{Kind: PropertyName, Value: name})
	case indent == r.cur:
		if !r.expectingKey() {
			r.enqueue(Event{Kind: String})
		}
		r.enqueue(Event{Kind: PropertyName, Value: name})
	default:
		// close-to-indent should have run before any key at a lower
		// indent can arrive.
		r.reportTok(t, "internal: key above the current scope")
		if !r.expectingKey() {
			r.enqueue(Event{Kind: String})
		}
		r.enqueue(Event{Kind: PropertyName, Value: name})
	}
}

// closeToIndent pops frames whose owner sits at or beyond target,
// emitting the matching end events and synthesizing empty values for
// dangling keys.
func (r *Reader) closeToIndent(t yamltok.Token, target int) {
	for {
		top := r.top()
		if top == nil || top.enclosing < target {
			break
		}
		if top.kind == mappingFrame {
			if !r.expectingKey() {
				r.enqueue(Event{Kind: String})
			}
			r.enqueue(Event{Kind: EndObject})
		} else {
			r.enqueue(Event{Kind: EndArray})
		}
		r.cur = top.enclosing
		r.stack = r.stack[:len(r.stack)-1]
	}
	if r.cur != target {
		r.reportTok(t, "indentation mismatch")
		r.cur = target
	}
}

func (r *Reader) finish(t yamltok.Token) {
	r.closeToIndent(t, -1)
	r.enqueue(Event{Kind: End})
	r.done = true
}

// step consumes tokens until it has enqueued at least one event or
// reached a state change; every path consumes a token or enqueues, so
// the parser always terminates.
func (r *Reader) step() {
	t := r.peekTok()
	switch t.Kind {
	case yamltok.None, yamltok.BetweenDocs, yamltok.Tag, yamltok.Directive:
		r.consume()

	case yamltok.BeginDoc:
		if !r.opts.MergeDocuments && r.started {
			r.finish(t)
			return
		}
		r.consume()

	case yamltok.NewLine:
		indent := t.Indent
		r.consume()
		n := r.peekTok()
		if n.Kind == yamltok.NewLine || n.Kind == yamltok.EndDoc || n.Kind == yamltok.EOF {
			return
		}
		if indent < r.cur {
			r.closeToIndent(n, indent)
		}
		// A sequence member line must start with '-'; its absence at the
		// owner's indent means the sequence ended.
		if top := r.top(); top != nil && top.kind == sequenceFrame &&
			indent == top.enclosing && n.Kind != yamltok.SequenceIndicator {
			r.enqueue(Event{Kind: EndArray})
			r.cur = top.enclosing
			r.stack = r.stack[:len(r.stack)-1]
		}

	case yamltok.ValueIndicator:
		if r.expectingKey() || t.Indent > r.cur {
			r.enqueueKey(t, t.Indent, "")
		}
		r.consume()

	case yamltok.KeyIndicator:
		if t.Indent > r.cur {
			r.pushFrame(mappingFrame, t.Indent)
			return
		}
		if top := r.top(); top != nil && top.kind == sequenceFrame {
			r.reportTok(t, "unexpected '?' inside sequence")
			r.consume()
			return
		}
		if !r.expectingKey() {
			r.enqueue(Event{Kind: String})
			return
		}
		r.consume()
		s := r.peekTok()
		if s.Kind != yamltok.Scalar {
			r.reportTok(s, "expected scalar after '?'")
			return
		}
		r.enqueueKey(s, t.Indent, s.Value)
		r.consume()

	case yamltok.Scalar:
		r.consume()
		n := r.peekTok()
		if n.Kind == yamltok.ValueIndicator {
			r.enqueueKey(t, t.Indent, t.Value)
			r.consume()
			return
		}
		if r.expectingKey() {
			r.reportTok(t, "expected ':' after mapping key")
			r.enqueueKey(t, t.Indent, "")
		}
		r.enqueue(Event{Kind: String, Value: t.Value})

	case yamltok.SequenceIndicator:
		top := r.top()
		switch {
		case top != nil && top.kind == sequenceFrame && t.Indent == r.cur:
			// next item of the open sequence
		case t.Indent >= r.cur:
			r.pushFrame(sequenceFrame, t.Indent)
		default:
			r.reportTok(t, "unexpected '-'")
		}
		r.consume()

	case yamltok.EndDoc:
		if r.opts.MergeDocuments {
			r.consume()
			return
		}
		r.finish(t)

	case yamltok.EOF:
		r.finish(t)
	}
}
