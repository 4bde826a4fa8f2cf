package gen

import (
	"go/token"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/metamodel/compiler/categorize"
)

var lowerCaser = cases.Lower(language.English)

// typeIdent returns the Go identifier prefix of a managed type: the entity
// name for entities, the simple class name otherwise.
func typeIdent(t categorize.ManagedType) string {
	name := t.ClassName()
	if it, ok := t.(*categorize.IdentifiableTypeMetadata); ok && it.IsEntity() {
		name = it.EntityName()
	}
	if i := strings.LastIndexAny(name, ".$"); i >= 0 {
		name = name[i+1:]
	}
	return inflect.Camelize(name)
}

// attrIdent returns the identifier of the constant naming an attribute.
func attrIdent(typ string, a *categorize.AttributeMetadata) string {
	return typ + "Attr" + inflect.Camelize(a.Name())
}

// fileName returns the file a type is generated to.
func fileName(ident string) string {
	return inflect.Underscore(ident) + ".go"
}

// natureText returns the nature as written in comments: "to-one".
func natureText(n categorize.AttributeNature) string {
	return lowerCaser.String(strings.ReplaceAll(n.String(), "_", "-"))
}

// kindText describes a managed type in comments.
func kindText(t categorize.ManagedType) string {
	it, ok := t.(*categorize.IdentifiableTypeMetadata)
	switch {
	case !ok:
		return "embeddable"
	case it.IsEntity():
		return "entity"
	default:
		return "mapped superclass"
	}
}

// namespace tracks the package-level identifiers of a generation run.
type namespace map[string]string

// claim reserves an identifier for an owner.
func (ns namespace) claim(ident, owner string) error {
	if !token.IsIdentifier(ident) || !token.IsExported(ident) {
		return NewGenerationError("", "cannot derive an exported identifier for "+owner+": "+ident, nil)
	}
	if prev, ok := ns[ident]; ok && prev != owner {
		return &NameConflictError{Ident: ident, First: prev, Second: owner}
	}
	ns[ident] = owner
	return nil
}
