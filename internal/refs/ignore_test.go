package refs_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/tlbuild/internal/model"
	"github.com/skaphos/tlbuild/internal/refs"
)

func branchRef(name string) model.ResolvedRef {
	return model.ResolvedRef{Name: name, Family: name, Version: name, DisplayFamily: name}
}

var _ = Describe("Ignore rules", func() {
	It("always drops obsolete families and the literal HEAD ref", func() {
		rules := refs.DefaultRules(refs.RuleOptions{IncludeLegacy: true, IncludeRC: true, IncludeSPMA: true})
		Expect(rules.Excluded(branchRef("sl5.x.obsolete"), refs.MostRecent)).To(BeTrue())
		Expect(rules.Excluded(branchRef("HEAD"), refs.MostRecent)).To(BeTrue())
		Expect(rules.Excluded(branchRef("sl6.x-x86_64"), refs.MostRecent)).To(BeFalse())
	})

	It("drops legacy and spma families unless their toggles are enabled", func() {
		rules := refs.DefaultRules(refs.RuleOptions{})
		Expect(rules.Excluded(branchRef("sl5.x-legacy"), refs.MostRecent)).To(BeTrue())
		Expect(rules.Excluded(branchRef("sl6.x-x86_64-spma"), refs.MostRecent)).To(BeTrue())

		// Enabling a toggle removes the rule from the active set entirely,
		// which is distinct from the exact-match escape clause.
		withSPMA := refs.DefaultRules(refs.RuleOptions{IncludeSPMA: true})
		Expect(withSPMA.Excluded(branchRef("sl6.x-x86_64-spma"), refs.MostRecent)).To(BeFalse())
		withLegacy := refs.DefaultRules(refs.RuleOptions{IncludeLegacy: true})
		Expect(withLegacy.Excluded(branchRef("sl5.x-legacy"), refs.MostRecent)).To(BeFalse())
	})

	It("drops release-candidate versions unless included", func() {
		rules := refs.DefaultRules(refs.RuleOptions{})
		rc := model.ResolvedRef{Name: "template-library-14.2.1-rc1", Family: "template-library", Version: "14.2.1-rc1", DisplayFamily: "master"}
		Expect(rules.Excluded(rc, "14.2.1")).To(BeTrue())
		withRC := refs.DefaultRules(refs.RuleOptions{IncludeRC: true})
		Expect(withRC.Excluded(rc, "14.2.1")).To(BeFalse())
	})

	It("does not let the most-recent sentinel act as an exact-match escape", func() {
		rules := refs.DefaultRules(refs.RuleOptions{})
		// In branch mode Family == Version == "HEAD" == the requested
		// sentinel; the ref must still be dropped by the ^HEAD$ rule.
		Expect(rules.Excluded(branchRef(refs.MostRecent), refs.MostRecent)).To(BeTrue())

		// An explicitly requested version named by a rule still survives.
		rc := model.ResolvedRef{Name: "template-library-14.2.1-rc1", Family: "template-library", Version: "14.2.1-rc1", DisplayFamily: "master"}
		Expect(rules.Excluded(rc, "14.2.1-rc1")).To(BeFalse())
	})

	It("never excludes a component that exactly equals the requested version", func() {
		rules := refs.DefaultRules(refs.RuleOptions{})
		rc := model.ResolvedRef{Name: "template-library-14.2.1-rc1", Family: "template-library", Version: "14.2.1-rc1", DisplayFamily: "master"}
		Expect(rules.Excluded(rc, "14.2.1-rc1")).To(BeFalse())

		legacyFamily := model.ResolvedRef{Name: "el7-legacy-1.0", Family: "el7-legacy", Version: "1.0", DisplayFamily: "el7-legacy"}
		Expect(rules.Excluded(legacyFamily, "el7-legacy")).To(BeFalse())
	})
})
