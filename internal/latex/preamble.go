package latex

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// buildArticlePreamble generates the KOMA article head and title.
func buildArticlePreamble(o Options) string {
	var buf strings.Builder
	if o.Standalone {
		buf.WriteString(buildDocumentClass(o, "scrartcl", ""))
		buf.WriteString(buildHead(o))
	}
	buf.WriteString(buildTitleCommands(o.Meta))
	if o.Meta.Title != "" {
		buf.WriteString("\\maketitle\n")
	}
	if buf.Len() > 0 {
		buf.WriteString("\n")
	}
	return buf.String()
}

// buildReportPreamble generates the KOMA report head and its cover page.
func buildReportPreamble(o Options) string {
	var buf strings.Builder
	if o.Standalone {
		titlePage := "notitlepage,"
		if o.TitlePage {
			titlePage = "titlepage,"
		}
		buf.WriteString(buildDocumentClass(o, "scrreprt", titlePage))
		buf.WriteString(buildHead(o))
	}
	buf.WriteString("\\def \\ifempty#1{\\ifx\\empty#1}\n\n")
	buf.WriteString(buildTitleCommands(o.Meta))
	buf.WriteString(buildUniversityCommands(o.Meta))
	buf.WriteString(o.TitlePages.ReportCover)
	buf.WriteString("\n\n")
	return buf.String()
}

// buildThesisPreamble generates the KOMA book head followed by the front
// matter: cover, title page, disclaimer, abstracts and table of contents.
func buildThesisPreamble(o Options) string {
	var buf strings.Builder
	if o.Standalone {
		buf.WriteString(buildDocumentClass(o, "scrbook", "headsepline,footsepline,BCOR=12mm,DIV=12,"))
		buf.WriteString(buildHead(o))
	}
	buf.WriteString("\\def \\ifempty#1{\\def\\temp{#1} \\ifx\\temp\\empty}\n\n")
	buf.WriteString(buildUniversityCommands(o.Meta))
	buf.WriteString("\\pagenumbering{alph}\n")
	buf.WriteString(o.TitlePages.ThesisCover + "\n")
	buf.WriteString("\\frontmatter{}\n")
	buf.WriteString(o.TitlePages.ThesisTitle + "\n")
	if o.Meta.Disclaimer != "" {
		fmt.Fprintf(&buf, "\\newcommand*{\\getDisclaimer}{%s}\n", o.Meta.Disclaimer)
		buf.WriteString(o.TitlePages.ThesisDisclaimer + "\n")
	}
	buf.WriteString("\\cleardoublepage{}\n")
	for _, abstract := range o.Abstracts {
		buf.WriteString(abstract)
		buf.WriteString("\n\\cleardoublepage{}\n")
	}
	buf.WriteString("\n\\microtypesetup{protrusion=false}\n\\tableofcontents{}\n\\microtypesetup{protrusion=true}\n\n")
	buf.WriteString("\\mainmatter{}\n")
	return buf.String()
}

// buildBeamerPreamble generates the beamer head and the title frame.
func buildBeamerPreamble(o Options) string {
	var buf strings.Builder
	if o.Standalone {
		// beamer loads color, xcolor and hyperref itself: pass their options
		// through the class.
		buf.WriteString(buildDocumentClass(o, "beamer",
			"color={usenames,dvipsnames},\nxcolor={usenames,dvipsnames},\nhyperref={pdfusetitle},\n"))
		if o.BeamerTheme != "" {
			includes := []string{`\usetheme{` + o.BeamerTheme + `}`}
			o.HeaderIncludes = append(includes, o.HeaderIncludes...)
		}
		buf.WriteString(buildHead(o))
	}
	buf.WriteString("\\def \\ifempty#1{\\def\\temp{#1} \\ifx\\temp\\empty}\n\n")
	buf.WriteString(buildTitleCommands(o.Meta))
	buf.WriteString(buildUniversityCommands(o.Meta))
	if o.Meta.Title != "" {
		buf.WriteString("\\begin{frame}\n\\titlepage\n\\end{frame}\n")
	}
	buf.WriteString("\n")
	return buf.String()
}

func buildDocumentClass(o Options, class, extra string) string {
	var buf strings.Builder
	buf.WriteString(`\documentclass[`)
	if o.FontSize != "" {
		buf.WriteString(o.FontSize + ",")
	}
	buf.WriteString(extra)
	for _, opt := range o.ClassOptions {
		buf.WriteString(opt + ",")
	}
	buf.WriteString("]{" + class + "}\n\n")
	return buf.String()
}

// buildHead generates packages, style and header includes up to the start
// of the document environment.
func buildHead(o Options) string {
	var buf strings.Builder
	buf.WriteString(buildPackages(o))
	buf.WriteString("\\setlength{\\parindent}{0pt}\n")
	buf.WriteString("\\setlength{\\parskip}{1\\baselineskip plus 2pt minus 2pt}\n")
	if o.Style != "" {
		buf.WriteString(o.Style)
		if !strings.HasSuffix(o.Style, "\n") {
			buf.WriteString("\n")
		}
	}
	for _, include := range o.HeaderIncludes {
		buf.WriteString(include + "\n")
	}
	buf.WriteString("\n\\begin{document}\n\n")
	return buf.String()
}

func buildPackages(o Options) string {
	var buf strings.Builder
	buf.WriteString("\\usepackage[utf8]{inputenc}\n")
	buf.WriteString("\\usepackage[T1]{fontenc}\n")
	buf.WriteString("\\usepackage[sc]{mathpazo}\n")
	fmt.Fprintf(&buf, "\\usepackage[%s]{babel}\n", babelLanguage(o.Lang))
	buf.WriteString("\\usepackage{csquotes}\n")
	fmt.Fprintf(&buf, "\\usepackage[%s]{geometry}\n\n", strings.Join(o.Geometry, ","))

	if o.Bibliography != "" {
		fmt.Fprintf(&buf, "\\usepackage[backend=biber,citestyle=%s,bibstyle=%s]{biblatex}\n", o.CiteStyle, o.BibStyle)
		fmt.Fprintf(&buf, "\\addbibresource{%s}\n", texPath(o.Bibliography))
	}

	for _, pkg := range packages {
		buf.WriteString("\\usepackage" + pkg + "\n")
	}
	buf.WriteString("\n")
	return buf.String()
}

// packages are loaded by every flavor, in this order.
var packages = []string{
	"{cmap}",
	"{float}",
	"{listings}",
	"[usenames, dvipsnames]{color}",
	"{xcolor}",
	"{pdfpages}",
	"{environ}",
	"{amssymb}",
	"{amsmath}",
	"{amsthm}",
	"{stmaryrd}",
	"[gen]{eurosym}",
	"[normalem]{ulem}",
	"{graphicx}",
	"{transparent}",
	"[final]{microtype}",
	"[pdfusetitle]{hyperref}",
	"{caption}",
	"{cleveref}",
	"{refcount}",
	"[titletoc,toc,title]{appendix}",
	"{array}",
	"{pdfcomment}",
	"{tabularx}",
}

// buildTitleCommands writes the KOMA title fields that are set. Publisher,
// supervisor and advisor share the \publishers field.
func buildTitleCommands(m Metadata) string {
	var buf strings.Builder
	field := func(cmd, value string) {
		if value != "" {
			fmt.Fprintf(&buf, "\\%s{%s}\n", cmd, value)
		}
	}
	field("title", m.Title)
	field("subtitle", m.Subtitle)
	field("author", m.Author)
	field("date", m.Date)

	var publishers []string
	if m.Publisher != "" {
		publishers = append(publishers, m.Publisher)
	}
	if m.Supervisor != "" {
		publishers = append(publishers, "Supervisor: "+m.Supervisor)
	}
	if m.Advisor != "" {
		publishers = append(publishers, "Advisor: "+m.Advisor)
	}
	field("publishers", strings.Join(publishers, `\\`))
	return buf.String()
}

// buildUniversityCommands defines the getters used by the title page
// templates.
func buildUniversityCommands(m Metadata) string {
	var buf strings.Builder
	for _, c := range []struct{ name, value string }{
		{"Title", m.Title},
		{"Subtitle", m.Subtitle},
		{"Author", m.Author},
		{"Date", m.Date},
		{"Supervisor", m.Supervisor},
		{"Advisor", m.Advisor},
		{"LogoUniversity", texPath(m.LogoUniversity)},
		{"LogoFaculty", texPath(m.LogoFaculty)},
		{"University", m.University},
		{"Faculty", m.Faculty},
		{"ThesisType", m.ThesisType},
		{"Location", m.Location},
	} {
		fmt.Fprintf(&buf, "\\newcommand*{\\get%s}{%s}\n", c.name, c.value)
	}
	return buf.String()
}

// babelNames maps base languages to babel option names.
var babelNames = map[string]string{
	"cs": "czech",
	"da": "danish",
	"de": "ngerman",
	"en": "english",
	"es": "spanish",
	"fi": "finnish",
	"fr": "french",
	"it": "italian",
	"nl": "dutch",
	"no": "norsk",
	"pl": "polish",
	"pt": "portuguese",
	"ru": "russian",
	"sv": "swedish",
	"tr": "turkish",
}

// babelLanguage accepts a BCP 47 tag ("de", "en-GB") or a babel name
// ("ngerman") and returns the babel name.
func babelLanguage(lang string) string {
	if lang == "" {
		return "english"
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToLower(lang)
	}
	base, _ := tag.Base()
	if name, ok := babelNames[base.String()]; ok {
		return name
	}
	return strings.ToLower(lang)
}
