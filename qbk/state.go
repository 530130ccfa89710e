package qbk

import (
	"go.uber.org/zap"
)

// Definition is a named textual substitution. Macros are plain text
// bodies; templates additionally declare positional parameters that the
// invocation must supply.
type Definition struct {
	Name   string
	Body   string
	Params []string
	Pos    Position
}

// State is the mutable document-construction context threaded through
// the grammar actions. One instance exists per top-level input file and
// is never shared between two logical parses.
type State struct {
	// Out is the append-only output buffer. The pretty-printer receives
	// its final contents after the body grammar has run to completion.
	Out *ByteRenderer

	// SectionLevel is the current nesting depth of section constructs.
	// Every open must be matched by a close; a nonzero level at end of
	// input is a warning, a close at level zero is an error.
	SectionLevel int

	ErrorCount   int
	WarningCount int

	// SourceMode is the language hint for code blocks, set from the
	// docinfo source-mode attribute.
	SourceMode string

	Encoder Encoder
	Config  *Config
	Report  *Reporter
	Log     *zap.SugaredLogger

	macros    map[string]*Definition
	templates map[string]*Definition

	// active guards against re-entering a unit that is still being
	// parsed: file origins for includes, definition names for macro and
	// template expansion. Push on entry, pop on exit.
	active map[string]bool

	// sectionCounter feeds the generated section anchor ids. It only
	// ever grows, which guarantees uniqueness within the document.
	sectionCounter int
}

func NewState(cfg *Config, enc Encoder, rep *Reporter, logger *zap.SugaredLogger) *State {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &State{
		Out:       &ByteRenderer{},
		Encoder:   enc,
		Config:    cfg,
		Report:    rep,
		Log:       logger,
		macros:    make(map[string]*Definition),
		templates: make(map[string]*Definition),
		active:    make(map[string]bool),
	}
}

// DefineMacro registers a macro. A later definition of an existing name,
// whether the earlier one came from the command line or from the body,
// replaces it and emits a warning.
func (st *State) DefineMacro(def *Definition) {
	if prev, ok := st.macros[def.Name]; ok {
		st.WarningCount++
		st.Report.Warn(def.Pos, "macro '%s' redefined, previous definition at %s:%d is shadowed.",
			def.Name, prev.Pos.Origin, prev.Pos.Line)
	}
	st.Log.Debugw("defining macro", "name", def.Name)
	st.macros[def.Name] = def
}

// DefineTemplate registers a template, with the same shadowing policy as
// macros.
func (st *State) DefineTemplate(def *Definition) {
	if prev, ok := st.templates[def.Name]; ok {
		st.WarningCount++
		st.Report.Warn(def.Pos, "template '%s' redefined, previous definition at %s:%d is shadowed.",
			def.Name, prev.Pos.Origin, prev.Pos.Line)
	}
	st.Log.Debugw("defining template", "name", def.Name, "params", def.Params)
	st.templates[def.Name] = def
}

func (st *State) LookupMacro(name string) *Definition {
	return st.macros[name]
}

func (st *State) LookupTemplate(name string) *Definition {
	return st.templates[name]
}

// Enter pushes a logical origin (file path or definition name) onto the
// re-entrancy guard. It returns false when the origin is already active,
// which means expanding it again would recurse forever.
func (st *State) Enter(key string) bool {
	if st.active[key] {
		return false
	}
	st.active[key] = true
	return true
}

func (st *State) Leave(key string) {
	delete(st.active, key)
}

// NextSectionID returns a fresh anchor id for a section opening.
func (st *State) NextSectionID() string {
	st.sectionCounter++
	return "section_" + itoa(st.sectionCounter)
}

// InstallPredefinedMacros seeds the macro table with the build-time
// substitutions derived from the configuration timestamp and the input
// file name.
func (st *State) InstallPredefinedMacros(inputName string) {
	pos := Position{Origin: "<predefined>", Line: 1, Column: 1}
	st.macros["__DATE__"] = &Definition{Name: "__DATE__", Body: st.Config.Now.Format("2006-Jan-02"), Pos: pos}
	st.macros["__TIME__"] = &Definition{Name: "__TIME__", Body: st.Config.Now.Format("03:04:05 PM"), Pos: pos}
	st.macros["__FILENAME__"] = &Definition{Name: "__FILENAME__", Body: inputName, Pos: pos}
}

// ApplyPresetDefines parses each command-line "name=value" definition
// with the minimal standalone grammar and inserts it into the macro
// table. This runs once per top-level parse, ahead of any body-defined
// macro, so body definitions shadow presets per the documented policy.
func (st *State) ApplyPresetDefines() {
	for _, def := range st.Config.Defines {
		c := NewCursor("command line parameter", []byte(def))
		name, ok := readMacroIdentifier(c)
		if !ok {
			st.ErrorCount++
			st.Report.Error(c.Position(), "invalid macro definition: '%s'.", def)
			continue
		}
		body := ""
		if c.Peek() == '=' {
			c.Advance(1)
			body = string(c.Remaining())
		} else if !c.AtEOF() {
			st.ErrorCount++
			st.Report.Error(c.Position(), "invalid macro definition: '%s'.", def)
			continue
		}
		st.macros[name] = &Definition{Name: name, Body: body, Pos: c.Position()}
	}
}

// Status maps the accumulated error count to the discrete process status.
func (st *State) Status() int {
	if st.ErrorCount > 0 {
		return 1
	}
	return 0
}
