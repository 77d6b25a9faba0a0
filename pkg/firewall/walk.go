package firewall

import (
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// activeOneofField returns the proto field name of whichever field is
// populated on m, for a message that is entirely a set of oneof
// alternatives (such as libpg_query's Node wrapper). Returns "" if none is
// set.
func activeOneofField(m protoreflect.Message) string {
	var name string
	m.Range(func(fd protoreflect.FieldDescriptor, _ protoreflect.Value) bool {
		name = string(fd.Name())
		return false
	})
	return name
}

// funcCallName extracts the normalized (lowercased, last-component) name of
// a FuncCall node from its "funcname" field, a list of Node values each
// wrapping a String leaf.
func funcCallName(m protoreflect.Message) (string, bool) {
	fd := m.Descriptor().Fields().ByName("funcname")
	if fd == nil || !m.Has(fd) {
		return "", false
	}
	list := m.Get(fd).List()
	if list.Len() == 0 {
		return "", false
	}
	last := list.Get(list.Len() - 1).Message()
	sval := stringLeafValue(last)
	if sval == "" {
		return "", false
	}
	return strings.ToLower(sval), true
}

// stringLeafValue reads the "sval" field off a libpg_query String leaf
// node, whether it is reached directly or wrapped in a Node oneof.
func stringLeafValue(m protoreflect.Message) string {
	desc := m.Descriptor()
	if fd := desc.Fields().ByName("sval"); fd != nil && m.Has(fd) {
		return m.Get(fd).String()
	}
	// m may be a Node wrapping a "string" variant; descend one level.
	if fd := desc.Fields().ByName("string"); fd != nil && m.Has(fd) {
		return stringLeafValue(m.Get(fd).Message())
	}
	return ""
}

// violation describes one AST node that must block the query.
type violation struct {
	code    string
	message string
}

// walker finds blocked nested statements and blocked function calls
// anywhere beneath a top-level SELECT's AST. It does not revisit the
// top-level statement's own classification, which the caller already
// checked.
type walker struct {
	violations []violation
}

func (w *walker) walk(msg proto.Message) {
	if msg == nil {
		return
	}
	m := msg.ProtoReflect()
	if !m.IsValid() {
		return
	}

	if string(m.Descriptor().Name()) == "Node" {
		field := activeOneofField(m)
		if mutatingStatementFields[field] {
			w.violations = append(w.violations, violation{
				code:    CodeBlockedSubquery,
				message: "nested " + field + " is not a read-only statement",
			})
		}
	}

	if string(m.Descriptor().Name()) == "FuncCall" {
		if name, ok := funcCallName(m); ok && blockedFunctions[name] {
			w.violations = append(w.violations, violation{
				code:    CodeBlockedFunction,
				message: "call to blocked function " + name,
			})
		}
	}

	m.Range(func(fd protoreflect.FieldDescriptor, v protoreflect.Value) bool {
		switch {
		case fd.Kind() != protoreflect.MessageKind:
			return true
		case fd.IsList():
			list := v.List()
			for i := 0; i < list.Len(); i++ {
				w.walk(list.Get(i).Message().Interface())
			}
		case fd.IsMap():
			// libpg_query's proto schema has no map fields on statement nodes.
		default:
			w.walk(v.Message().Interface())
		}
		return true
	})
}
