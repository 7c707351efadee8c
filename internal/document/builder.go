// Package document assembles token streams into a tree of documents,
// assigns globally unique target names and resolves match expressions
// against the assembled tree.
package document

import (
	"context"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/awkspace/runfile/internal/lexer"
	"github.com/awkspace/runfile/pkg/domain"
	"github.com/awkspace/runfile/pkg/ports"
)

// Builder loads documents through a Fetcher and assembles the include
// tree.
type Builder struct {
	fetcher ports.Fetcher
	logger  *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(fetcher ports.Fetcher, logger *slog.Logger) *Builder {
	return &Builder{fetcher: fetcher, logger: logger}
}

// Load fetches, tokenizes and assembles the document at address, together
// with its whole include tree, and assigns unique display names.
func (b *Builder) Load(ctx context.Context, address string) (*domain.Document, error) {
	doc := domain.NewDocument(address)
	if err := b.load(ctx, doc); err != nil {
		return nil, err
	}
	NameTargets(doc)
	return doc, nil
}

// Refresh discards the document's children and re-resolves its includes
// from their sources, then reassigns unique names. Used by the update
// flow to force include resynchronization.
func (b *Builder) Refresh(ctx context.Context, doc *domain.Document) error {
	doc.RemoveChildren()
	if err := b.ensureIncludes(ctx, doc); err != nil {
		return err
	}
	NameTargets(doc)
	return nil
}

func (b *Builder) load(ctx context.Context, doc *domain.Document) error {
	data, err := b.fetcher.Fetch(ctx, doc.Address)
	if err != nil {
		return err
	}
	tokens, err := lexer.Tokenize(string(data))
	if err != nil {
		return err
	}
	if err := b.assemble(doc, tokens); err != nil {
		return err
	}
	return b.ensureIncludes(ctx, doc)
}

// assemble walks the token sequence maintaining a current-document cursor
// starting at the root. Header tokens with an include lineage switch the
// cursor to the corresponding child document, creating the path from the
// root as needed.
func (b *Builder) assemble(root *domain.Document, tokens []domain.Token) error {
	cur := root
	for _, token := range tokens {
		header, isHeader := token.(*domain.Header)
		if isHeader && cur.Header != nil {
			// The current document's section ends here; group its tokens
			// before moving the cursor.
			if err := parseTargets(cur); err != nil {
				return err
			}
			if len(header.Lineage) == 0 && cur == root {
				return &domain.FormatError{
					Reason: "only one top-level header is permitted per document",
				}
			}
			next, err := b.descend(root, header)
			if err != nil {
				return err
			}
			cur = next
		}
		if isHeader {
			cur.Header = header
		} else if cur.Header == nil {
			return &domain.FormatError{Reason: "missing document header"}
		}
		cur.Tokens = append(cur.Tokens, token)
	}
	if err := parseTargets(cur); err != nil {
		return err
	}
	// Documents created as intermediate path steps never become the
	// cursor; give them an implicit target so they stay addressable.
	return eachDocument(root, func(d *domain.Document) error {
		if d.Setup() == nil {
			return parseTargets(d)
		}
		return nil
	})
}

// descend walks the header's lineage from the root, creating keyed child
// documents along the way, and returns the final child the header belongs
// to. When a parent already declares an include for the step's source, the
// declared alias wins over the alias recorded in the lineage.
func (b *Builder) descend(root *domain.Document, header *domain.Header) (*domain.Document, error) {
	cur := root
	for _, step := range header.Lineage {
		alias := step.Alias
		if declared, err := childAlias(cur, step.Source); err != nil {
			return nil, err
		} else if declared != "" {
			alias = declared
		}
		child := cur.Child(alias)
		if child == nil {
			child = domain.NewDocument(step.Source)
			cur.AddChild(alias, child)
		}
		cur = child
	}
	return cur, nil
}

// childAlias returns the alias the document declares for a source address,
// or empty when the source is not declared.
func childAlias(doc *domain.Document, source string) (string, error) {
	setup := doc.Setup()
	if setup == nil {
		return "", nil
	}
	includes, err := setup.Config.IncludeList()
	if err != nil {
		return "", err
	}
	for _, inc := range includes {
		if inc.Source == source {
			return inc.Alias, nil
		}
	}
	return "", nil
}

// parseTargets groups a document's token sequence into the implicit
// pre-target target plus each named target's blocks. A config block
// assigns the owning target's configuration, a build-spec block its build
// specification; every other block appends to the ordered step list.
func parseTargets(doc *domain.Document) error {
	doc.ResetTargets()
	implicit, _ := domain.NewTarget("", "")
	if err := doc.SetTarget(implicit); err != nil {
		return err
	}
	current := implicit
	for _, token := range doc.Tokens {
		switch t := token.(type) {
		case *domain.Target:
			if err := doc.SetTarget(t); err != nil {
				return err
			}
			current = t
		case *domain.CodeBlock:
			switch {
			case t.IsConfig():
				var raw map[string]any
				if err := yaml.Unmarshal([]byte(t.Body), &raw); err != nil {
					return domain.Formatf("invalid configuration block: %v", err)
				}
				cfg, err := domain.DecodeConfig(raw)
				if err != nil {
					return err
				}
				current.Config = cfg
			case t.IsBuildSpec():
				current.BuildSpec = t.Body
			default:
				current.Blocks = append(current.Blocks, t)
			}
		}
	}
	return nil
}

// ensureIncludes reconciles a document's declared includes against its
// children: children that are no longer declared, or whose recorded source
// changed, are dropped; missing or out-of-position children are fetched
// fresh and receive the full ancestor lineage. Kept children are
// reconciled recursively.
func (b *Builder) ensureIncludes(ctx context.Context, doc *domain.Document) error {
	var includes []domain.Include
	if setup := doc.Setup(); setup != nil {
		var err error
		includes, err = setup.Config.IncludeList()
		if err != nil {
			return err
		}
	}

	declared := make(map[string]string, len(includes))
	for _, inc := range includes {
		declared[inc.Alias] = inc.Source
	}
	for _, alias := range doc.ChildAliases() {
		source, ok := declared[alias]
		if !ok || recordedSource(doc.Child(alias)) != source {
			doc.RemoveChild(alias)
		}
	}

	existing := doc.ChildAliases()
	for i, inc := range includes {
		if i < len(existing) && existing[i] == inc.Alias {
			if err := b.ensureIncludes(ctx, doc.Child(inc.Alias)); err != nil {
				return err
			}
			continue
		}
		child := domain.NewDocument(inc.Source)
		if err := b.load(ctx, child); err != nil {
			return err
		}
		prefix := lineagePrefix(doc, inc)
		prependLineage(child, prefix)
		doc.AddChild(inc.Alias, child)
		b.logger.Debug("included document", "alias", inc.Alias, "source", inc.Source)
	}
	return nil
}

// recordedSource is the immediate source address a child document was
// fetched from, per the last step of its lineage.
func recordedSource(child *domain.Document) string {
	if child.Header == nil || len(child.Header.Lineage) == 0 {
		return ""
	}
	return child.Header.Lineage[len(child.Header.Lineage)-1].Source
}

// lineagePrefix is the chain of includes leading from the root to a new
// child of doc, in root-to-here order.
func lineagePrefix(doc *domain.Document, inc domain.Include) []domain.Include {
	var prefix []domain.Include
	if doc.Header != nil {
		prefix = append(prefix, doc.Header.Lineage...)
	}
	return append(prefix, inc)
}

// prependLineage pushes the ancestor chain onto a freshly loaded child and
// all of its descendants. Lineage feeds both display-name disambiguation
// and cache keys, so it must propagate through the whole subtree.
func prependLineage(doc *domain.Document, prefix []domain.Include) {
	if doc.Header != nil {
		doc.Header.Lineage = append(append([]domain.Include(nil), prefix...), doc.Header.Lineage...)
	}
	for _, child := range doc.Children() {
		prependLineage(child, prefix)
	}
}

// eachDocument applies fn to doc and every descendant, pre-order.
func eachDocument(doc *domain.Document, fn func(*domain.Document) error) error {
	if err := fn(doc); err != nil {
		return err
	}
	for _, child := range doc.Children() {
		if err := eachDocument(child, fn); err != nil {
			return err
		}
	}
	return nil
}
