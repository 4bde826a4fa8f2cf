package categorize

import (
	"fmt"

	"github.com/syssam/metamodel"
	"github.com/syssam/metamodel/compiler/load"
	"github.com/syssam/metamodel/schema"
)

// CallbackType is a lifecycle event.
type CallbackType uint8

// Lifecycle events, in the order listeners report them.
const (
	PrePersist CallbackType = iota
	PostPersist
	PreRemove
	PostRemove
	PreUpdate
	PostUpdate
	PostLoad
	numCallbacks
)

var callbackAnnotations = [numCallbacks]string{
	schema.PrePersist,
	schema.PostPersist,
	schema.PreRemove,
	schema.PostRemove,
	schema.PreUpdate,
	schema.PostUpdate,
	schema.PostLoad,
}

// String returns the callback annotation name.
func (t CallbackType) String() string {
	if t < numCallbacks {
		return callbackAnnotations[t]
	}
	return fmt.Sprintf("CallbackType(%d)", t)
}

// MarshalText implements encoding.TextMarshaler.
func (t CallbackType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// CallbackTypes returns all lifecycle events.
func CallbackTypes() []CallbackType {
	ts := make([]CallbackType, numCallbacks)
	for i := range ts {
		ts[i] = CallbackType(i)
	}
	return ts
}

// ParseCallbackType parses a callback annotation name.
func ParseCallbackType(s string) (CallbackType, error) {
	for i, name := range callbackAnnotations {
		if name == s {
			return CallbackType(i), nil
		}
	}
	return 0, fmt.Errorf("categorize: unknown callback type %q", s)
}

// ListenerStyle tells callbacks declared on the entity itself apart from
// callbacks declared on a separate listener class.
type ListenerStyle uint8

// Listener styles.
const (
	// CallbackStyle methods are declared on the managed class and take no
	// parameters.
	CallbackStyle ListenerStyle = iota
	// ListenerClassStyle methods are declared on a listener class and take the
	// entity as their only parameter.
	ListenerClassStyle
)

// String returns the style name.
func (s ListenerStyle) String() string {
	if s == ListenerClassStyle {
		return "LISTENER"
	}
	return "CALLBACK"
}

// MarshalText implements encoding.TextMarshaler.
func (s ListenerStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// JpaEventListener is a class with at most one method per lifecycle event.
type JpaEventListener struct {
	Style   ListenerStyle
	Class   string
	Default bool // Declared as a persistence-unit default listener.

	methods [numCallbacks]string
}

// Method returns the method handling the event, if any.
func (l *JpaEventListener) Method(t CallbackType) (string, bool) {
	if t >= numCallbacks || l.methods[t] == "" {
		return "", false
	}
	return l.methods[t], true
}

// Methods returns the handled events and their methods.
func (l *JpaEventListener) Methods() map[CallbackType]string {
	ms := make(map[CallbackType]string)
	for i, m := range l.methods {
		if m != "" {
			ms[CallbackType(i)] = m
		}
	}
	return ms
}

// Empty reports whether the listener handles no event.
func (l *JpaEventListener) Empty() bool {
	for _, m := range l.methods {
		if m != "" {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (l *JpaEventListener) String() string {
	return fmt.Sprintf("%s(%s)", l.Style, l.Class)
}

// CollectListener reads the lifecycle methods of a class. At most one
// method per event is allowed. Callback-style methods take no parameters,
// listener-style methods take exactly one.
func CollectListener(c *load.ClassDetails, style ListenerStyle) (*JpaEventListener, error) {
	l := &JpaEventListener{Style: style, Class: c.Name}
	wantParams := 0
	if style == ListenerClassStyle {
		wantParams = 1
	}
	for t, name := range callbackAnnotations {
		var found []string
		for _, m := range c.Methods {
			if !m.HasAnnotation(name) {
				continue
			}
			if m.Static {
				return nil, metamodel.NewModelError(c.Name, m.Name, fmt.Sprintf("@%s method cannot be static", name), nil)
			}
			if len(m.Params) != wantParams {
				return nil, metamodel.NewModelError(c.Name, m.Name, fmt.Sprintf("@%s method must declare %d parameter(s)", name, wantParams), nil)
			}
			found = append(found, m.Name)
		}
		switch len(found) {
		case 0:
		case 1:
			l.methods[t] = found[0]
		default:
			return nil, metamodel.NewMultipleCallbacksError(c.Name, name, found...)
		}
	}
	return l, nil
}

// listenerFromMapping resolves a listener declared in a mapping document.
// Explicit callback methods win over the annotations of the class.
func listenerFromMapping(el *load.EntityListener, model ClassModel) (*JpaEventListener, error) {
	if len(el.Callbacks) > 0 {
		l := &JpaEventListener{Style: ListenerClassStyle, Class: el.Class}
		for name, method := range el.Callbacks {
			t, err := ParseCallbackType(name)
			if err != nil {
				return nil, metamodel.NewModelError(el.Class, method, "invalid entity listener callback", err)
			}
			l.methods[t] = method
		}
		return l, nil
	}
	c, ok := model.Class(el.Class)
	if !ok {
		return nil, metamodel.NewModelError(el.Class, "", "entity listener class not found", nil)
	}
	return CollectListener(c, ListenerClassStyle)
}

// buildListenerChain composes the listeners of an identifiable type: the
// chain of the super type, the @EntityListeners classes, the callbacks of
// the class itself and, for the absolute root, the default listeners.
// @ExcludeSuperclassListeners drops the inherited non-default listeners,
// @ExcludeDefaultListeners drops the default ones.
func buildListenerChain(c *load.ClassDetails, local *JpaEventListener, super *IdentifiableTypeMetadata, defaults []*JpaEventListener, model ClassModel) ([]*JpaEventListener, error) {
	var (
		chain          []*JpaEventListener
		excludeSuper   = c.HasAnnotation(schema.ExcludeSuperclassListeners)
		excludeDefault = c.HasAnnotation(schema.ExcludeDefaultListeners)
	)
	if super != nil {
		for _, l := range super.listeners {
			if (l.Default && excludeDefault) || (!l.Default && excludeSuper) {
				continue
			}
			chain = append(chain, l)
		}
	}
	if a := c.Annotation(schema.EntityListeners); a != nil {
		for _, name := range a.Strings("value") {
			lc, ok := model.Class(name)
			if !ok {
				return nil, metamodel.NewModelError(c.Name, "", "entity listener class "+name+" not found", nil)
			}
			l, err := CollectListener(lc, ListenerClassStyle)
			if err != nil {
				return nil, err
			}
			chain = append(chain, l)
		}
	}
	if local != nil && !local.Empty() {
		chain = append(chain, local)
	}
	if super == nil && !excludeDefault {
		chain = append(chain, defaults...)
	}
	return chain, nil
}
