package page

import "strings"

// Element is a node in the page tree: a tag, attributes, text and children.
// Elements follow the browser main-thread discipline: all mutations happen
// from a single goroutine, interleaved with the callbacks they trigger.
type Element struct {
	Tag  string
	Text string

	doc      *Document
	parent   *Element
	attrs    map[string]string
	children []*Element
}

// NewElement creates a detached element. Attributes are given as
// name/value pairs.
func NewElement(tag string, attrPairs ...string) *Element {
	e := &Element{Tag: tag, attrs: map[string]string{}}
	for i := 0; i+1 < len(attrPairs); i += 2 {
		e.attrs[attrPairs[i]] = attrPairs[i+1]
	}
	return e
}

// Attr returns the attribute value, or "" when unset.
func (e *Element) Attr(name string) string {
	return e.attrs[name]
}

// HasAttr reports whether the attribute is set.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(name, value string) {
	e.attrs[name] = value
}

// RemoveAttr removes an attribute.
func (e *Element) RemoveAttr(name string) {
	delete(e.attrs, name)
}

// ID returns the element id attribute.
func (e *Element) ID() string {
	return e.Attr("id")
}

// HasClass reports whether the class attribute contains name.
func (e *Element) HasClass(name string) bool {
	for _, c := range strings.Fields(e.Attr("class")) {
		if c == name {
			return true
		}
	}
	return false
}

// Parent returns the parent element, nil for detached or root elements.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// AppendChild attaches child as the last child of e. If e is part of a
// document, insertion observers are notified.
func (e *Element) AppendChild(child *Element) {
	child.detachFromParent()
	child.parent = e
	child.setDoc(e.doc)
	e.children = append(e.children, child)
	if e.doc != nil {
		e.doc.notify([]*Element{child})
	}
}

// Detach removes e from its parent, keeping the subtree intact. The element
// survives and can be re-inserted later with its attributes and children.
func (e *Element) Detach() {
	e.detachFromParent()
	e.setDoc(nil)
}

// ReplaceWith swaps e for other in e's parent. A no-op for detached elements.
func (e *Element) ReplaceWith(other *Element) {
	parent := e.parent
	if parent == nil {
		return
	}
	for i, c := range parent.children {
		if c == e {
			other.detachFromParent()
			other.parent = parent
			other.setDoc(parent.doc)
			parent.children[i] = other
			e.parent = nil
			e.setDoc(nil)
			if parent.doc != nil {
				parent.doc.notify([]*Element{other})
			}
			return
		}
	}
}

// Find returns the first descendant matching the predicate, depth first.
func (e *Element) Find(match func(*Element) bool) *Element {
	for _, c := range e.children {
		if match(c) {
			return c
		}
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant matching the predicate, depth first.
func (e *Element) FindAll(match func(*Element) bool) []*Element {
	var out []*Element
	for _, c := range e.children {
		if match(c) {
			out = append(out, c)
		}
		out = append(out, c.FindAll(match)...)
	}
	return out
}

// FindByID returns the first descendant with the given id attribute.
func (e *Element) FindByID(id string) *Element {
	return e.Find(func(el *Element) bool { return el.ID() == id })
}

// InputValue returns the value attribute of the first descendant input
// with the given name, or "" when absent.
func (e *Element) InputValue(name string) string {
	input := e.Find(func(el *Element) bool {
		return el.Tag == "input" && el.Attr("name") == name
	})
	if input == nil {
		return ""
	}
	return input.Attr("value")
}

func (e *Element) detachFromParent() {
	if e.parent == nil {
		return
	}
	siblings := e.parent.children
	for i, c := range siblings {
		if c == e {
			e.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	e.parent = nil
}

func (e *Element) setDoc(doc *Document) {
	e.doc = doc
	for _, c := range e.children {
		c.setDoc(doc)
	}
}
