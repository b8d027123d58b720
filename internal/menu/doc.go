// Package menu implements a button-driven configuration menu.
//
// A menu is a tree of Nodes built once from Descriptors (Build, or
// ParseSchema for YAML schemas). Levels hold children; Int, Float, IP, List
// and Bool fields are bound to dotted config paths through a Binding;
// Actions run callbacks; Labels are inert.
//
// The Engine consumes five buttons (UP, DOWN, LEFT, RIGHT, FIRE) one at a
// time. While browsing, UP and DOWN move a wrapping cursor, RIGHT enters the
// selected node and LEFT goes back up, or exits at the root. Entering a
// numeric, IP or list field opens an edit session:
//
//	Int, Float  UP/DOWN step within bounds; LEFT or RIGHT commits
//	IP          UP/DOWN change the active octet; LEFT/RIGHT move between
//	            octets; RIGHT on the last octet commits
//	List        UP/DOWN cycle the options; LEFT or RIGHT commits
//
// FIRE abandons an edit without writing anything. Bool fields have no
// session: RIGHT toggles and commits at once.
//
// A failed commit leaves the session open with the attempted value and puts
// the error in the view's message line.
package menu
