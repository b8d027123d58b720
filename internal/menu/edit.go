package menu

// editResult tells the engine what an input did to the session.
type editResult int

const (
	editNone editResult = iota
	editChanged
	editCommit
	editAbandon
)

// EditSession holds the working value of the field being edited. The node's
// cached value is only replaced when the session commits.
type EditSession struct {
	node *Node

	intVal   IntValue
	floatVal FloatValue
	ip       IPv4
	list     ListValue
	octet    int
}

func newEditSession(n *Node) *EditSession {
	return &EditSession{
		node:     n,
		intVal:   n.intVal,
		floatVal: n.floatVal,
		ip:       n.ip,
		list:     ListValue{Options: n.list.Options, Index: n.list.Index},
	}
}

// Node returns the field under edit.
func (s *EditSession) Node() *Node {
	return s.node
}

// Octet returns the active octet of an IP edit.
func (s *EditSession) Octet() int {
	return s.octet
}

// Working returns the value being edited, in the same form as Node.Value.
func (s *EditSession) Working() interface{} {
	switch s.node.Kind {
	case KindInt:
		return s.intVal.Value
	case KindFloat:
		return s.floatVal.Value
	case KindIP:
		return s.ip
	case KindList:
		return s.list.Selected()
	default:
		return nil
	}
}

// stored returns the working value in the representation written to the
// binding.
func (s *EditSession) stored() interface{} {
	switch s.node.Kind {
	case KindInt:
		return s.intVal.Value
	case KindFloat:
		return s.floatVal.Value
	case KindIP:
		return s.ip.String()
	case KindList:
		if s.node.listAsIndex {
			return s.list.Index
		}
		return s.list.Selected()
	default:
		return nil
	}
}

// apply copies the working value into the node's cache.
func (s *EditSession) apply() {
	switch s.node.Kind {
	case KindInt:
		s.node.intVal = s.intVal
	case KindFloat:
		s.node.floatVal = s.floatVal
	case KindIP:
		s.node.ip = s.ip
	case KindList:
		s.node.list = s.list
	}
}

func (s *EditSession) handle(a Action) editResult {
	if a == Fire {
		return editAbandon
	}

	switch s.node.Kind {
	case KindInt:
		switch a {
		case Up:
			return s.setInt(s.intVal.Up())
		case Down:
			return s.setInt(s.intVal.Down())
		case Left, Right:
			return editCommit
		}

	case KindFloat:
		switch a {
		case Up:
			return s.setFloat(s.floatVal.Up())
		case Down:
			return s.setFloat(s.floatVal.Down())
		case Left, Right:
			return editCommit
		}

	case KindIP:
		switch a {
		case Up:
			return s.setIP(s.ip.Up(s.octet))
		case Down:
			return s.setIP(s.ip.Down(s.octet))
		case Left:
			if s.octet == 0 {
				return editNone
			}
			s.octet--
			return editChanged
		case Right:
			if s.octet == LastOctet {
				return editCommit
			}
			s.octet++
			return editChanged
		}

	case KindList:
		switch a {
		case Up:
			return s.setList(s.list.Prev())
		case Down:
			return s.setList(s.list.Next())
		case Left, Right:
			return editCommit
		}
	}
	return editNone
}

func (s *EditSession) setInt(v IntValue) editResult {
	if v == s.intVal {
		return editNone
	}
	s.intVal = v
	return editChanged
}

func (s *EditSession) setFloat(v FloatValue) editResult {
	if v == s.floatVal {
		return editNone
	}
	s.floatVal = v
	return editChanged
}

func (s *EditSession) setIP(ip IPv4) editResult {
	if ip == s.ip {
		return editNone
	}
	s.ip = ip
	return editChanged
}

func (s *EditSession) setList(v ListValue) editResult {
	if v.Index == s.list.Index {
		return editNone
	}
	s.list = v
	return editChanged
}
