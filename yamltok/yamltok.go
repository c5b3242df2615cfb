// Package yamltok lexes a restricted subset of YAML into tokens. It
// pairs a normalizing character reader with a hand-written scanner that
// tracks indentation, recognizes document markers and indicators, and
// reads plain, quoted and block scalars with YAML folding and chomping
// rules. Scalars are always strings; tags are lexed but carry no
// semantics. You'd think an existing library would expose this layer,
// but the production parsers all keep it internal.
package yamltok

// Config controls marker handling and receives lexer diagnostics.
type Config struct {
	// IgnoreTextOutsideDocumentMarkers skips input until a '---' line,
	// and between documents skips until the next '---'.
	IgnoreTextOutsideDocumentMarkers bool
	// AcceptContentOnStartDocumentLine permits content on the same line
	// as the '---' marker.
	AcceptContentOnStartDocumentLine bool
	// Report receives diagnostics. May be nil.
	Report func(Diag)
}

// Tokenizer produces the next YAML token on demand. It always makes
// forward progress: on any error it reports a diagnostic and consumes at
// least one character.
type Tokenizer struct {
	r        *Reader
	cfg      Config
	inDoc    bool
	afterEnd bool // saw '...', waiting for the next '---'
	// keyIndent is the indent of the most recently consumed key or
	// sequence indicator; the plain-scalar reader stops a multi-line
	// scalar at any line indented no deeper than this.
	keyIndent int
}

func New(r *Reader, cfg Config) *Tokenizer {
	if cfg.Report == nil {
		cfg.Report = func(Diag) {}
	}
	return &Tokenizer{r: r, cfg: cfg, keyIndent: -1}
}

func (t *Tokenizer) report(msg string) {
	t.cfg.Report(Diag{Line: t.r.Line(), Col: t.r.Pos(), Msg: msg})
}

func (t *Tokenizer) tok(kind Kind) Token {
	return Token{Kind: kind, Indent: t.r.Indent(), Line: t.r.Line(), Col: t.r.Pos()}
}

// Next returns the next token, or a token of kind EOF at end of input.
func (t *Tokenizer) Next() Token {
	for {
		c := t.r.Peek()
		if c == EOFChar {
			return t.tok(EOF)
		}

		if c == '\n' {
			tk := t.tok(NewLine)
			t.r.Read()
			t.skipLineIndent()
			tk.Indent = t.r.Indent()
			return tk
		}

		if t.r.Pos() == 0 && (c == '-' || c == '.') {
			if tk, ok := t.docMarker(); ok {
				return tk
			}
			c = t.r.Peek()
		}

		if !t.inDoc {
			tk, emitted := t.betweenDocs(c)
			if emitted {
				return tk
			}
			continue
		}

		switch {
		case c == '\t' && t.r.Pos() == t.r.Indent():
			t.report("tab cannot be used for indentation")
			t.r.Read()
		case c == ' ':
			t.r.Read()
		case c == '#':
			t.skipComment()
		case c == '\'':
			return t.readSingleQuoted()
		case c == '"':
			return t.readDoubleQuoted()
		case c == '|' || c == '>':
			return t.readBlockScalar(byte(c))
		case c == '?':
			if tk, ok := t.keyIndicator(); ok {
				return tk
			}
			return t.readPlain()
		case c == ':':
			if tk, ok := t.valueIndicator(); ok {
				return tk
			}
			return t.readPlain()
		case c == '-':
			if tk, ok := t.sequenceIndicator(); ok {
				return tk
			}
			return t.readPlain()
		case c == '!':
			return t.readTag()
		default:
			return t.readPlain()
		}
	}
}

// betweenDocs handles input while outside a document. It returns the
// token to emit and whether one was produced; when it produces nothing
// the dispatch loop retries (possibly now in-document).
func (t *Tokenizer) betweenDocs(c rune) (Token, bool) {
	switch c {
	case '%':
		return t.readDirective(), true
	case '#':
		t.skipComment()
		return Token{}, false
	case ' ', '\t':
		t.r.Read()
		return Token{}, false
	}
	if t.cfg.IgnoreTextOutsideDocumentMarkers {
		return t.skipOutsideLine(), true
	}
	if t.afterEnd {
		t.report("unexpected text after end-of-document marker")
		return t.skipOutsideLine(), true
	}
	// No marker seen yet: the document starts implicitly.
	t.inDoc = true
	return Token{}, false
}

// skipOutsideLine consumes the rest of the current line and reports it
// as a BetweenDocs token carrying the skipped text.
func (t *Tokenizer) skipOutsideLine() Token {
	tk := t.tok(BetweenDocs)
	var text []byte
	for {
		c := t.r.Peek()
		if c == '\n' || c == EOFChar {
			break
		}
		text = appendRune(text, t.r.Read())
	}
	tk.Value = string(text)
	return tk
}

// docMarker recognizes '---' and '...' at column 0. On a miss it pushes
// everything back and reports false.
func (t *Tokenizer) docMarker() (Token, bool) {
	tk := t.tok(None)
	c1 := t.r.Read()
	c2 := t.r.Read()
	c3 := t.r.Read()
	if c1 == '-' && c2 == '-' && c3 == '-' {
		n := t.r.Peek()
		if n == '\n' || n == EOFChar {
			t.startDoc()
			tk.Kind = BeginDoc
			return tk, true
		}
		if t.cfg.AcceptContentOnStartDocumentLine && (n == ' ' || n == '\t') {
			for n == ' ' || n == '\t' {
				t.r.Read()
				n = t.r.Peek()
			}
			// Content on the marker line belongs to the new document at
			// column 0.
			t.r.ResetLineOrigin()
			t.startDoc()
			tk.Kind = BeginDoc
			return tk, true
		}
	}
	if c1 == '.' && c2 == '.' && c3 == '.' {
		n := t.r.Peek()
		if n == '\n' || n == EOFChar {
			t.inDoc = false
			t.afterEnd = true
			t.keyIndent = -1
			tk.Kind = EndDoc
			return tk, true
		}
	}
	t.r.Unread(c3)
	t.r.Unread(c2)
	t.r.Unread(c1)
	return Token{}, false
}

func (t *Tokenizer) startDoc() {
	t.inDoc = true
	t.afterEnd = false
	t.keyIndent = -1
}

func (t *Tokenizer) readDirective() Token {
	tk := t.tok(Directive)
	t.r.Read() // '%'
	var text []byte
	for {
		c := t.r.Peek()
		if c == '\n' || c == '#' || c == EOFChar {
			break
		}
		text = appendRune(text, t.r.Read())
	}
	tk.Value = trimTrailingSpace(text)
	return tk
}

func (t *Tokenizer) readTag() Token {
	tk := t.tok(Tag)
	var text []byte
	for {
		c := t.r.Peek()
		if c == ' ' || c == '\t' || c == '\n' || c == EOFChar {
			break
		}
		text = appendRune(text, t.r.Read())
	}
	for t.r.Peek() == ' ' {
		t.r.Read()
	}
	tk.Value = string(text)
	return tk
}

// keyIndicator recognizes '?' followed by whitespace, newline or EOF.
func (t *Tokenizer) keyIndicator() (Token, bool) {
	tk := t.tok(KeyIndicator)
	t.r.Read() // '?'
	n := t.r.Peek()
	if n != ' ' && n != '\t' && n != '\n' && n != EOFChar {
		t.r.Unread('?')
		return Token{}, false
	}
	t.keyIndent = t.r.Indent()
	for {
		n := t.r.Peek()
		if n != ' ' && n != '\t' {
			break
		}
		t.r.Read()
	}
	return tk, true
}

// valueIndicator recognizes ':' followed by whitespace or at end of
// line. It records keyIndent and moves the line's indent up to the
// position of any content following the indicator, so a member
// collection can start on the same line.
func (t *Tokenizer) valueIndicator() (Token, bool) {
	tk := t.tok(ValueIndicator)
	t.r.Read() // ':'
	n := t.r.Peek()
	if n != ' ' && n != '\t' && n != '\n' && n != EOFChar {
		t.r.Unread(':')
		return Token{}, false
	}
	t.keyIndent = t.r.Indent()
	for {
		n := t.r.Peek()
		if n != ' ' && n != '\t' {
			break
		}
		t.r.Read()
	}
	t.r.SetIndent(t.r.Pos())
	return tk, true
}

// sequenceIndicator recognizes '-' followed by whitespace, newline or
// EOF, with the same indent adjustment as valueIndicator.
func (t *Tokenizer) sequenceIndicator() (Token, bool) {
	tk := t.tok(SequenceIndicator)
	t.r.Read() // '-'
	n := t.r.Peek()
	if n != ' ' && n != '\t' && n != '\n' && n != EOFChar {
		t.r.Unread('-')
		return Token{}, false
	}
	t.keyIndent = t.r.Indent()
	for {
		n := t.r.Peek()
		if n != ' ' && n != '\t' {
			break
		}
		t.r.Read()
	}
	t.r.SetIndent(t.r.Pos())
	return tk, true
}

// skipComment consumes a '#' comment up to but not including the newline.
func (t *Tokenizer) skipComment() {
	for {
		c := t.r.Peek()
		if c == '\n' || c == EOFChar {
			return
		}
		t.r.Read()
	}
}

// skipLineIndent consumes the leading spaces of the line just entered.
func (t *Tokenizer) skipLineIndent() {
	for t.r.Peek() == ' ' {
		t.r.Read()
	}
}
