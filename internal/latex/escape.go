package latex

import (
	"strings"

	"github.com/alnah/go-md2latex/internal/engine"
	"github.com/alnah/go-md2latex/internal/event"
)

// textMode describes where a piece of text ends up in the output.
type textMode struct {
	inlineCode bool // inside \texttt, special characters need \char
	codeOrMath bool // inside verbatim code or math, most characters are literal
	graphviz   bool // inside dot source, nothing is replaced
	math       bool
}

func modeOf(s engine.Stack) textMode {
	var m textMode
	for i := 0; i < s.Len(); i++ {
		k := s.Kind(i)
		switch {
		case k == event.KindInlineCode:
			m.inlineCode = true
			m.codeOrMath = true
		case k.IsCode():
			m.codeOrMath = true
		case k.IsMath():
			m.math = true
			m.codeOrMath = true
		case k == event.KindGraphviz:
			m.graphviz = true
			m.codeOrMath = true
		}
	}
	return m
}

// escaped reports whether LaTeX special characters must be escaped.
func (m textMode) escaped() bool {
	return m.inlineCode || !m.codeOrMath
}

// Escape escapes text for plain paragraph content.
func Escape(text string) string {
	var b strings.Builder
	escapeTo(&b, text, textMode{})
	return b.String()
}

func escapeTo(b *strings.Builder, text string, m textMode) {
	b.Grow(len(text) + 20)
	for _, c := range text {
		switch {
		case strings.ContainsRune("#$%&", c) && m.escaped():
			b.WriteByte('\\')
			b.WriteRune(c)
		case c == '\\' && m.escaped():
			b.WriteString(`\textbackslash{}`)
		case strings.ContainsRune("~_^{}", c) && m.inlineCode:
			b.WriteString("\\char`")
			b.WriteRune(c)
			b.WriteString("{}")
		case strings.ContainsRune("~_^{}", c) && !m.codeOrMath:
			b.WriteString(textSpecials[c])
		case c == '✔':
			b.WriteString(`\checkmark{}`)
		case c == '✘':
			b.WriteString(`\text{X}`)
		case m.graphviz:
			b.WriteRune(c)
		default:
			rep, ok := mathSymbols[c]
			switch {
			case !ok:
				b.WriteRune(c)
			case m.math:
				b.WriteString(rep)
			default:
				b.WriteString("$" + rep + "$")
			}
		}
	}
}

var textSpecials = map[rune]string{
	'~': `\textasciitilde{}`,
	'_': `\_`,
	'^': `\textasciicircum{}`,
	'{': `\{`,
	'}': `\}`,
}

// mathSymbols maps unicode characters without a text-mode glyph in the
// default fonts to math commands.
var mathSymbols = map[rune]string{
	'α': `\alpha`,
	'β': `\beta`,
	'γ': `\gamma`,
	'δ': `\delta`,
	'ε': `\varepsilon`,
	'ζ': `\zeta`,
	'η': `\eta`,
	'θ': `\theta`,
	'ι': `\iota`,
	'κ': `\kappa`,
	'λ': `\lambda`,
	'μ': `\mu`,
	'ν': `\nu`,
	'ξ': `\xi`,
	'π': `\pi`,
	'ρ': `\rho`,
	'σ': `\sigma`,
	'τ': `\tau`,
	'φ': `\varphi`,
	'χ': `\chi`,
	'ψ': `\psi`,
	'ω': `\omega`,
	'Γ': `\Gamma`,
	'Δ': `\Delta`,
	'Θ': `\Theta`,
	'Λ': `\Lambda`,
	'Π': `\Pi`,
	'Σ': `\Sigma`,
	'Φ': `\Phi`,
	'Ψ': `\Psi`,
	'Ω': `\Omega`,
	'∀': `\forall`,
	'∃': `\exists`,
	'∄': `\nexists`,
	'∅': `\emptyset`,
	'∈': `\in`,
	'∉': `\notin`,
	'∑': `\sum`,
	'∏': `\prod`,
	'∞': `\infty`,
	'∧': `\land`,
	'∨': `\lor`,
	'¬': `\neg`,
	'∩': `\cap`,
	'∪': `\cup`,
	'⊂': `\subset`,
	'⊆': `\subseteq`,
	'⊃': `\supset`,
	'⊇': `\supseteq`,
	'≤': `\leq`,
	'≥': `\geq`,
	'≠': `\neq`,
	'≈': `\approx`,
	'≡': `\equiv`,
	'±': `\pm`,
	'×': `\times`,
	'÷': `\div`,
	'·': `\cdot`,
	'∘': `\circ`,
	'√': `\surd`,
	'∂': `\partial`,
	'∇': `\nabla`,
	'→': `\rightarrow`,
	'←': `\leftarrow`,
	'↔': `\leftrightarrow`,
	'⇒': `\Rightarrow`,
	'⇐': `\Leftarrow`,
	'⇔': `\Leftrightarrow`,
	'↦': `\mapsto`,
	'⊢': `\vdash`,
	'⊨': `\models`,
	'⊥': `\bot`,
	'⊤': `\top`,
	'ℕ': `\mathbb{N}`,
	'ℤ': `\mathbb{Z}`,
	'ℚ': `\mathbb{Q}`,
	'ℝ': `\mathbb{R}`,
	'ℂ': `\mathbb{C}`,
	'⟨': `\langle`,
	'⟩': `\rangle`,
	'⟦': `\llbracket`,
	'⟧': `\rrbracket`,
}
