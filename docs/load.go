package docs

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/doc/comment"
	"go/token"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadOptions controls how packages are loaded.
type LoadOptions struct {
	// Dir is the directory patterns are resolved in. Empty means the current
	// directory.
	Dir string
	// Markdown renders doc comments as CommonMark instead of plain text.
	Markdown bool
	// Unexported includes unexported types and functions.
	Unexported bool
}

// Load harvests the doc comments of the packages matching patterns, such as
// "./..." or an import path.
func Load(ctx context.Context, opts LoadOptions, patterns ...string) (*Manifest, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedSyntax | packages.NeedTypes,
		Dir:     opts.Dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("docs: loading packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("docs: no packages match %s", strings.Join(patterns, " "))
	}

	var errs []error
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, e)
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("docs: package errors: %w", errors.Join(errs...))
	}

	h := &harvester{m: New(), opts: opts}
	for _, p := range pkgs {
		for _, f := range p.Syntax {
			h.file(p.PkgPath, f)
		}
	}
	return h.m, nil
}

type harvester struct {
	m    *Manifest
	opts LoadOptions
}

func (h *harvester) file(pkgPath string, f *ast.File) {
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(d.Specs) == 1 {
					doc = d.Doc
				}
				h.typeSpec(pkgPath, ts, doc)
			}
		case *ast.FuncDecl:
			h.funcDecl(pkgPath, d)
		}
	}
}

func (h *harvester) typeSpec(pkgPath string, ts *ast.TypeSpec, doc *ast.CommentGroup) {
	if !h.visible(ts.Name.Name) {
		return
	}
	qualified := pkgPath + "." + ts.Name.Name
	h.put(h.m.Types, qualified, doc)

	st, ok := ts.Type.(*ast.StructType)
	if !ok || st.Fields == nil {
		return
	}
	for _, field := range st.Fields.List {
		doc := field.Doc
		if doc == nil {
			doc = field.Comment
		}
		for _, name := range field.Names {
			if name.IsExported() || h.opts.Unexported {
				h.put(h.m.Fields, qualified+"."+name.Name, doc)
			}
		}
		if len(field.Names) == 0 {
			if name := embeddedName(field.Type); name != "" {
				h.put(h.m.Fields, qualified+"."+name, doc)
			}
		}
	}
}

func (h *harvester) funcDecl(pkgPath string, fd *ast.FuncDecl) {
	if !h.visible(fd.Name.Name) {
		return
	}
	name := pkgPath + "." + fd.Name.Name
	if fd.Recv != nil && len(fd.Recv.List) == 1 {
		recv := fd.Recv.List[0].Type
		if star, ok := recv.(*ast.StarExpr); ok {
			name = pkgPath + ".(*" + typeName(star.X) + ")." + fd.Name.Name
		} else {
			name = pkgPath + "." + typeName(recv) + "." + fd.Name.Name
		}
	}
	h.put(h.m.Funcs, name, fd.Doc)
}

func (h *harvester) visible(name string) bool {
	return h.opts.Unexported || ast.IsExported(name)
}

func (h *harvester) put(into map[string]string, key string, doc *ast.CommentGroup) {
	if text := h.render(doc); text != "" {
		into[key] = text
	}
}

// render turns a comment group into plain text or Markdown.
func (h *harvester) render(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	text := doc.Text()
	if !h.opts.Markdown {
		return strings.TrimSpace(text)
	}
	var p comment.Parser
	var pr comment.Printer
	return strings.TrimSpace(string(pr.Markdown(p.Parse(text))))
}

// typeName returns the bare name of a receiver type, dropping type parameters.
func typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return typeName(t.X)
	case *ast.IndexListExpr:
		return typeName(t.X)
	case *ast.StarExpr:
		return typeName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	}
	return ""
}

func embeddedName(expr ast.Expr) string {
	name := typeName(expr)
	if name == "" || !ast.IsExported(name) {
		return ""
	}
	return name
}
