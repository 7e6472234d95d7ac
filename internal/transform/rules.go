package transform

import (
	"fmt"

	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/model"
	"github.com/transitmodel/core/internal/modelerr"
	"github.com/transitmodel/core/internal/report"
)

// ComplementaryCodeRule attaches an (object kind, object id) to an
// additional (code_system, code_value) pair (spec.md section 4.9).
type ComplementaryCodeRule struct {
	ObjectKind entity.Kind
	ObjectID   string
	CodeSystem string
	CodeValue  string
}

// PropertyRule overwrites a named property of an object, but only if its
// current value equals OldValue (spec.md section 4.9). Only a fixed set
// of (kind, property) combinations is recognized; anything else produces
// a MalformedRule warning.
type PropertyRule struct {
	ObjectKind   entity.Kind
	ObjectID     string
	PropertyName string
	OldValue     string
	NewValue     string
}

// NetworkConsolidationRule folds GroupedFrom networks into a brand-new
// NewNetwork (spec.md section 4.9).
type NetworkConsolidationRule struct {
	NewNetwork  entity.Network
	GroupedFrom []string
}

// ApplyRules runs network-consolidation, then complementary-code rules,
// then property rules, in that fixed order (spec.md section 4.9 and P9),
// and returns the resulting Model alongside a Report of every warning and
// error the rule set produced. A network-consolidation rule whose new id
// collides with an existing Network is a hard error; every other failure
// mode is recorded in the Report and the offending rule is skipped.
func ApplyRules(m *model.Model, consolidations []NetworkConsolidationRule, codes []ComplementaryCodeRule, properties []PropertyRule) (*model.Model, *report.Report, error) {
	b := m.Decompose()
	rep := report.New()

	for _, r := range consolidations {
		if err := applyConsolidation(b, r, rep); err != nil {
			return nil, rep, err
		}
	}
	for _, r := range codes {
		applyComplementaryCode(b, r, rep)
	}
	for _, r := range properties {
		applyPropertyRule(b, r, rep)
	}

	nm, err := model.Assemble(b)
	if err != nil {
		return nil, rep, err
	}
	return nm, rep, nil
}

func applyConsolidation(b *bag.Bag, r NetworkConsolidationRule, rep *report.Report) error {
	if _, exists := b.Networks.ByID(r.NewNetwork.ID); exists {
		return &modelerr.DuplicateID{Kind: "Network", ID: r.NewNetwork.ID}
	}

	grouped := make(map[string]bool, len(r.GroupedFrom))
	existing := 0
	for _, id := range r.GroupedFrom {
		grouped[id] = true
		if _, ok := b.Networks.ByID(id); ok {
			existing++
		}
	}
	if len(r.GroupedFrom) == 0 || existing == 0 {
		rep.AddError("apply-rules", fmt.Sprintf("network-consolidation rule for %q: grouped_from names no existing network", r.NewNetwork.ID))
		return nil
	}

	nn := r.NewNetwork
	if _, err := b.Networks.Append(&nn); err != nil {
		return err
	}

	for h, l := range b.Lines.All() {
		if !grouped[l.NetworkID] {
			continue
		}
		cp := *l
		cp.NetworkID = nn.ID
		b.Lines.Set(h, &cp)
	}

	for h, tu := range b.TicketUses.All() {
		changed := false
		seen := make(map[string]bool, len(tu.NetworkIDs))
		rekeyed := make([]string, 0, len(tu.NetworkIDs))
		for _, nid := range tu.NetworkIDs {
			if grouped[nid] {
				nid = nn.ID
				changed = true
			}
			if !seen[nid] {
				seen[nid] = true
				rekeyed = append(rekeyed, nid)
			}
		}
		if changed {
			cp := *tu
			cp.NetworkIDs = rekeyed
			b.TicketUses.Set(h, &cp)
		}
	}

	b.Networks.Retain(func(n *entity.Network) bool { return !grouped[n.ID] })
	return nil
}

func applyComplementaryCode(b *bag.Bag, r ComplementaryCodeRule, rep *report.Report) {
	if !objectExists(b, r.ObjectKind, r.ObjectID) {
		rep.AddWarning("apply-rules", (&modelerr.ObjectNotFound{Kind: r.ObjectKind.String(), ID: r.ObjectID}).Error())
		return
	}
	for _, oc := range b.ObjectCodes.Slice() {
		if oc.ObjectKind == r.ObjectKind && oc.ObjectID == r.ObjectID && oc.CodeSystem == r.CodeSystem && oc.CodeValue == r.CodeValue {
			return
		}
	}
	b.ObjectCodes.Append(entity.ObjectCode{
		ObjectKind: r.ObjectKind,
		ObjectID:   r.ObjectID,
		CodeSystem: r.CodeSystem,
		CodeValue:  r.CodeValue,
	})
}

func applyPropertyRule(b *bag.Bag, r PropertyRule, rep *report.Report) {
	malformed := func() {
		rep.AddWarning("apply-rules", (&modelerr.MalformedRule{Source: "property-rule", Detail: fmt.Sprintf("unsupported property %q on %s", r.PropertyName, r.ObjectKind)}).Error())
	}
	mismatch := func(cur string) {
		rep.AddWarning("apply-rules", fmt.Sprintf("property rule on %s %q: expected %q, found %q", r.ObjectKind, r.ObjectID, r.OldValue, cur))
	}

	switch r.ObjectKind {
	case entity.KindLine:
		h, ok := b.Lines.HandleOf(r.ObjectID)
		if !ok {
			rep.AddWarning("apply-rules", (&modelerr.ObjectNotFound{Kind: "Line", ID: r.ObjectID}).Error())
			return
		}
		l := b.Lines.ByIndex(h)
		switch r.PropertyName {
		case "name":
			if l.Name != r.OldValue {
				mismatch(l.Name)
				return
			}
			cp := *l
			cp.Name = r.NewValue
			b.Lines.Set(h, &cp)
		case "code":
			cur := ""
			if l.Code != nil {
				cur = *l.Code
			}
			if cur != r.OldValue {
				mismatch(cur)
				return
			}
			v := r.NewValue
			cp := *l
			cp.Code = &v
			b.Lines.Set(h, &cp)
		default:
			malformed()
		}
	case entity.KindNetwork:
		h, ok := b.Networks.HandleOf(r.ObjectID)
		if !ok {
			rep.AddWarning("apply-rules", (&modelerr.ObjectNotFound{Kind: "Network", ID: r.ObjectID}).Error())
			return
		}
		n := b.Networks.ByIndex(h)
		switch r.PropertyName {
		case "name":
			if n.Name != r.OldValue {
				mismatch(n.Name)
				return
			}
			cp := *n
			cp.Name = r.NewValue
			b.Networks.Set(h, &cp)
		case "timezone":
			if n.Timezone != r.OldValue {
				mismatch(n.Timezone)
				return
			}
			cp := *n
			cp.Timezone = r.NewValue
			b.Networks.Set(h, &cp)
		default:
			malformed()
		}
	case entity.KindCompany:
		h, ok := b.Companies.HandleOf(r.ObjectID)
		if !ok {
			rep.AddWarning("apply-rules", (&modelerr.ObjectNotFound{Kind: "Company", ID: r.ObjectID}).Error())
			return
		}
		c := b.Companies.ByIndex(h)
		if r.PropertyName != "name" {
			malformed()
			return
		}
		if c.Name != r.OldValue {
			mismatch(c.Name)
			return
		}
		cp := *c
		cp.Name = r.NewValue
		b.Companies.Set(h, &cp)
	case entity.KindStopArea:
		h, ok := b.StopAreas.HandleOf(r.ObjectID)
		if !ok {
			rep.AddWarning("apply-rules", (&modelerr.ObjectNotFound{Kind: "StopArea", ID: r.ObjectID}).Error())
			return
		}
		s := b.StopAreas.ByIndex(h)
		if r.PropertyName != "name" {
			malformed()
			return
		}
		if s.Name != r.OldValue {
			mismatch(s.Name)
			return
		}
		cp := *s
		cp.Name = r.NewValue
		b.StopAreas.Set(h, &cp)
	case entity.KindStopPoint:
		h, ok := b.StopPoints.HandleOf(r.ObjectID)
		if !ok {
			rep.AddWarning("apply-rules", (&modelerr.ObjectNotFound{Kind: "StopPoint", ID: r.ObjectID}).Error())
			return
		}
		s := b.StopPoints.ByIndex(h)
		if r.PropertyName != "name" {
			malformed()
			return
		}
		if s.Name != r.OldValue {
			mismatch(s.Name)
			return
		}
		cp := *s
		cp.Name = r.NewValue
		b.StopPoints.Set(h, &cp)
	case entity.KindPhysicalMode:
		h, ok := b.PhysicalModes.HandleOf(r.ObjectID)
		if !ok {
			rep.AddWarning("apply-rules", (&modelerr.ObjectNotFound{Kind: "PhysicalMode", ID: r.ObjectID}).Error())
			return
		}
		p := b.PhysicalModes.ByIndex(h)
		if r.PropertyName != "name" {
			malformed()
			return
		}
		if p.Name != r.OldValue {
			mismatch(p.Name)
			return
		}
		cp := *p
		cp.Name = r.NewValue
		b.PhysicalModes.Set(h, &cp)
	default:
		malformed()
	}
}

// objectExists reports whether id names a live entity of the given kind,
// covering every kind a rule file is expected to reference.
func objectExists(b *bag.Bag, kind entity.Kind, id string) bool {
	switch kind {
	case entity.KindLine:
		_, ok := b.Lines.ByID(id)
		return ok
	case entity.KindRoute:
		_, ok := b.Routes.ByID(id)
		return ok
	case entity.KindVehicleJourney:
		_, ok := b.VehicleJourneys.ByID(id)
		return ok
	case entity.KindStopPoint:
		_, ok := b.StopPoints.ByID(id)
		return ok
	case entity.KindStopArea:
		_, ok := b.StopAreas.ByID(id)
		return ok
	case entity.KindNetwork:
		_, ok := b.Networks.ByID(id)
		return ok
	case entity.KindCompany:
		_, ok := b.Companies.ByID(id)
		return ok
	case entity.KindPhysicalMode:
		_, ok := b.PhysicalModes.ByID(id)
		return ok
	case entity.KindCommercialMode:
		_, ok := b.CommercialModes.ByID(id)
		return ok
	case entity.KindContributor:
		_, ok := b.Contributors.ByID(id)
		return ok
	case entity.KindDataset:
		_, ok := b.Datasets.ByID(id)
		return ok
	case entity.KindCalendar:
		_, ok := b.Calendars.ByID(id)
		return ok
	default:
		return false
	}
}
