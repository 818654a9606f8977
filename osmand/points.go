package osmand

import (
	"strings"

	"github.com/beevik/etree"
)

// PointRule is a single poi icon rule: any element in the style tree that
// carries a tag, a value and an icon attribute. The element itself is kept
// so that grouping attributes (shield) can later be looked up on ancestors.
type PointRule struct {
	Tag   string
	Value string
	Icon  string

	node *etree.Element
}

// SymbolName returns the name the rule publishes under, "tag:value".
func (r PointRule) SymbolName() string {
	return r.Tag + ":" + r.Value
}

// ExtractPointRules collects every point rule in the document in document
// order. Elements with any of the three attributes absent or blank do not
// form a rule.
func (d *Document) ExtractPointRules() []PointRule {
	var rules []PointRule
	forEachElement(d.Root(), func(el *etree.Element) {
		tag := strings.TrimSpace(el.SelectAttrValue("tag", ""))
		value := strings.TrimSpace(el.SelectAttrValue("value", ""))
		icon := strings.TrimSpace(el.SelectAttrValue("icon", ""))
		if tag == "" || value == "" || icon == "" {
			return
		}
		rules = append(rules, PointRule{Tag: tag, Value: value, Icon: icon, node: el})
	})
	return rules
}

// Shield returns the shield background for the rule and whether any element
// in the rule's chain declares one. The rule element is consulted first,
// then enclosing switch and apply groupings from the innermost out; the walk
// stops at the first element carrying the attribute even when its value is
// blank, since a blank shield is how styles cancel an inherited one.
func (r PointRule) Shield() (string, bool) {
	if a := r.node.SelectAttr("shield"); a != nil {
		return a.Value, true
	}
	for p := r.node.Parent(); p != nil; p = p.Parent() {
		if p.Tag != "switch" && p.Tag != "apply" {
			continue
		}
		if a := p.SelectAttr("shield"); a != nil {
			return a.Value, true
		}
	}
	return "", false
}
