package network

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/matzehuels/drainplan/pkg/estimate"
	"github.com/matzehuels/drainplan/pkg/sexpr"
)

// Kind identifies a node variant.
type Kind int

const (
	KindPlaceholder Kind = iota // a branch with only a length
	KindMain                    // K
	KindMainDrop                // KD
	KindMainPlain               // N at the root
	KindInvert                  // I
	KindStepInvert              // ID
	KindBend                    // L
	KindTrap                    // T
	KindDoubleTrap              // DT
	KindStartTrap               // KT
	KindDrop                    // D
	KindDoubleDrop              // DD
	KindRainBox                 // GB, U
	KindLabel                   // LABEL
	KindFixture                 // WC SM ST SS KI BT TE 2FWC 2FSM
	KindTee                     // TT
	KindElbow                   // LT
	KindCastElbow               // CLT
	KindWye                     // YT
	KindCastWye                 // CYT
	KindJoint                   // MC LA VC KC
	KindSeptic                  // JO
	KindInterceptor             // SO
	KindPump                    // PO
	KindPipeSelect              // PS
	KindTakeOut                 // TL
	KindLevel                   // LEVEL
	KindAbsLevel                // ALEVEL
	KindTurn                    // DummyLMasu
	KindPass                    // N
	kindCount
)

var kindNames = [kindCount]string{
	"placeholder", "main", "main-drop", "main-plain",
	"invert", "step-invert", "bend", "trap", "double-trap", "start-trap",
	"drop", "double-drop", "rain-box", "label", "fixture",
	"tee", "elbow", "cast-elbow", "wye", "cast-wye", "joint",
	"septic", "interceptor", "pump",
	"pipe-select", "take-out", "level", "abs-level", "turn", "pass",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// IsRoot reports whether k is one of the public junction kinds.
func (k Kind) IsRoot() bool {
	return k == KindMain || k == KindMainDrop || k == KindMainPlain
}

// production is what a branch symbol builds.
type production struct {
	kind Kind
	text string
}

// grammar maps branch symbols to node kinds. The vocabulary is fixed by the
// existing input files.
var grammar = map[string]production{
	"I":  {kind: KindInvert},
	"ID": {kind: KindStepInvert},
	"L":  {kind: KindBend},
	"T":  {kind: KindTrap},
	"DT": {kind: KindDoubleTrap},
	"KT": {kind: KindStartTrap},
	"D":  {kind: KindDrop},
	"DD": {kind: KindDoubleDrop},
	"GB": {kind: KindRainBox},
	"U":  {kind: KindRainBox},

	"LABEL": {kind: KindLabel},
	"WC":    {kind: KindFixture, text: "便所"},
	"SM":    {kind: KindFixture, text: "洗面"},
	"ST":    {kind: KindFixture, text: "洗濯"},
	"SS":    {kind: KindFixture, text: "洗面・洗濯"},
	"KI":    {kind: KindFixture, text: "台所"},
	"BT":    {kind: KindFixture, text: "風呂"},
	"TE":    {kind: KindFixture, text: "手洗"},
	"2FWC":  {kind: KindFixture, text: "2F便所"},
	"2FSM":  {kind: KindFixture, text: "2F洗面"},

	"TT":  {kind: KindTee},
	"LT":  {kind: KindElbow},
	"CLT": {kind: KindCastElbow},
	"YT":  {kind: KindWye},
	"CYT": {kind: KindCastWye},
	"MC":  {kind: KindJoint, text: "MC"},
	"LA":  {kind: KindJoint, text: "LA"},
	"VC":  {kind: KindJoint, text: "VC"},
	"KC":  {kind: KindJoint, text: "KC"},

	"JO": {kind: KindSeptic},
	"SO": {kind: KindInterceptor},
	"PO": {kind: KindPump},

	"PS":     {kind: KindPipeSelect},
	"TL":     {kind: KindTakeOut},
	"LEVEL":  {kind: KindLevel},
	"ALEVEL": {kind: KindAbsLevel},

	"DummyLMasu": {kind: KindTurn},
	"N":          {kind: KindPass},
}

// roots maps root symbols to node kinds.
var roots = map[string]Kind{
	"K":  KindMain,
	"KD": KindMainDrop,
	"N":  KindMainPlain,
}

// Symbols returns the branch vocabulary in sorted order.
func Symbols() []string {
	out := make([]string, 0, len(grammar))
	for s := range grammar {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SymbolKind returns the kind a branch symbol builds.
func SymbolKind(sym string) (Kind, bool) {
	p, ok := grammar[sym]
	return p.kind, ok
}

// Resolution is the outcome of one step of a backward recalculation.
type Resolution int

const (
	// Resolved means the node absorbed the request; nothing above it changes.
	Resolved Resolution = iota
	// Propagate passes the request to the parent.
	Propagate
	// Rejected means the constraint cannot be met.
	Rejected
)

func (r Resolution) String() string {
	switch r {
	case Resolved:
		return "resolved"
	case Propagate:
		return "propagate"
	case Rejected:
		return "rejected"
	}
	return "Resolution(" + strconv.Itoa(int(r)) + ")"
}

// traits is the behavior of one node kind.
type traits struct {
	name func(*Node) string
	// parse reads the parameters and branches following the symbol (and the
	// sequence label, for tagged kinds). Root kinds have none.
	parse func(b *builder, id NodeID, args sexpr.Value) error
	// dip is extra fall added to the incoming pipe.
	dip float64
	// tagged kinds accept an explicit sequence label after their symbol.
	tagged bool
	// numbered kinds get a sequence number when their entry pipe is new.
	numbered bool
	// labelled kinds draw a leader label and take part in angle resolution.
	labelled bool
	// pipe is set when the incoming pipe counts toward the takeoff.
	pipe bool
	// recalc decides whether the node terminates a backward recalculation;
	// nil means [Propagate].
	recalc func(constrained bool) Resolution
	// part returns the counted part of the node, if any.
	part func(n *Network, nd *Node) (string, estimate.Band, bool)
	draw func(d *drawer, nd *Node)
}

var kinds [kindCount]traits

func init() {
	root := traits{
		name: fixedName("公共マス"), numbered: true, labelled: true,
		recalc: func(bool) Resolution { return Resolved },
	}
	box := func(name func(*Node) string, dip float64, parse func(*builder, NodeID, sexpr.Value) error, draw func(*drawer, *Node)) traits {
		return traits{
			name: name, parse: parse, dip: dip,
			tagged: true, numbered: true, labelled: true, pipe: true,
			part: boxPart, draw: draw,
		}
	}
	fitting := func(name func(*Node) string, parse func(*builder, NodeID, sexpr.Value) error) traits {
		return traits{
			name: name, parse: parse, labelled: true, pipe: true,
			part: fittingPart, draw: (*drawer).fitting,
		}
	}
	modifier := func(name string, parse func(*builder, NodeID, sexpr.Value) error, draw func(*drawer, *Node)) traits {
		return traits{name: fixedName(name), parse: parse, pipe: true, draw: draw}
	}

	kinds = [kindCount]traits{
		KindPlaceholder: {name: fixedName(""), parse: parseNothing, draw: func(*drawer, *Node) {}},

		KindMain:      withDraw(root, (*drawer).main),
		KindMainDrop:  withDraw(root, (*drawer).mainDrop),
		KindMainPlain: withDraw(root, func(*drawer, *Node) {}),

		KindInvert:     box(fixedName("合流マス"), 0, parseTreeWay, (*drawer).junction),
		KindStepInvert: box(fixedName("合流マス(段差付)"), StepDip, parseTreeWay, (*drawer).junction),
		KindBend:       box(bendName, 0, parseBend, (*drawer).junction),
		KindTrap:       box(fixedName("トラップマス"), 0, parseTreeWay, (*drawer).trap),
		KindDoubleTrap: box(fixedName("ダブルトラップマス"), 0, parseTreeWay, (*drawer).doubleTrap),
		KindStartTrap:  box(fixedName("トラップマス"), 0, parseBend, (*drawer).trap),
		KindDrop:       box(fixedName("ドロップマス"), 0, parseDrop, (*drawer).drop),
		KindDoubleDrop: box(fixedName("ダブルドロップマス"), 0, parseDoubleDrop, (*drawer).drop),
		KindRainBox:    box(fixedName("雨水桝"), StepDip, parseTreeWay, (*drawer).rainBox),

		KindLabel:   {name: textName, parse: parseLabel, draw: (*drawer).text},
		KindFixture: {name: textName, parse: parseFixture, draw: (*drawer).text},

		KindTee:       fitting(fixedName("T"), parseTee),
		KindElbow:     fitting(angleName("%s°L"), parseBend),
		KindCastElbow: fitting(angleName("%s°鋳鉄製L"), parseBend),
		KindWye:       fitting(angleName("%s°YT"), parseWye),
		KindCastWye:   fitting(angleName("%s°鋳鉄製YT"), parseWye),
		KindJoint:     fitting(textName, parseForward),

		KindSeptic:      {name: fixedName("浄化槽"), parse: parseForward, labelled: true, pipe: true, part: unitPart, draw: (*drawer).septic},
		KindInterceptor: {name: textName, parse: parseInterceptor, labelled: true, pipe: true, part: unitPart, draw: (*drawer).interceptor},
		KindPump:        {name: fixedName("ポンプ"), parse: parsePump, labelled: true, pipe: true, part: unitPart, draw: (*drawer).pump},

		KindPipeSelect: withPart(modifier("パイプ選択", parsePipeSelect, (*drawer).modifier), selectPart),
		KindTakeOut: withRecalc(modifier("取出しレベル", parseTakeOut, (*drawer).modifier), func(bool) Resolution {
			return Resolved
		}),
		KindLevel:    modifier("地盤高設定", parseLevel, (*drawer).modifier),
		KindAbsLevel: modifier("地盤高設定(絶対)", parseAbsLevel, (*drawer).caption),

		KindTurn: {name: fixedName(""), parse: parseBend, pipe: true, draw: func(*drawer, *Node) {}},
		KindPass: {name: fixedName(""), parse: parseForward, tagged: true, pipe: true, draw: (*drawer).caption},
	}
	if err := validateKinds(); err != nil {
		panic(err)
	}
}

func withDraw(t traits, draw func(*drawer, *Node)) traits {
	t.draw = draw
	return t
}

func withPart(t traits, part func(*Network, *Node) (string, estimate.Band, bool)) traits {
	t.part = part
	return t
}

func withRecalc(t traits, recalc func(bool) Resolution) traits {
	t.recalc = recalc
	return t
}

// validateKinds checks that every kind is complete and that every symbol of
// the vocabulary builds a parseable kind.
func validateKinds() error {
	for k := Kind(0); k < kindCount; k++ {
		t := kinds[k]
		if t.name == nil || t.draw == nil {
			return fmt.Errorf("network: kind %s has no name or draw behavior", k)
		}
		if !k.IsRoot() && t.parse == nil {
			return fmt.Errorf("network: kind %s has no parser", k)
		}
		if t.numbered && !t.labelled {
			return fmt.Errorf("network: numbered kind %s draws no label", k)
		}
	}
	for sym, p := range grammar {
		if p.kind <= KindPlaceholder || p.kind >= kindCount || p.kind.IsRoot() {
			return fmt.Errorf("network: symbol %s maps to invalid kind %s", sym, p.kind)
		}
	}
	for sym, k := range roots {
		if !k.IsRoot() {
			return fmt.Errorf("network: root symbol %s maps to non-root kind %s", sym, k)
		}
	}
	return nil
}
