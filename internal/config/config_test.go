package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/tlbuild/internal/config"
	"github.com/skaphos/tlbuild/internal/model"
	"github.com/skaphos/tlbuild/internal/refs"
)

var _ = Describe("RunConfig", func() {
	var dest string

	BeforeEach(func() {
		dest = filepath.Join(GinkgoT().TempDir(), "library")
	})

	It("requires a version", func() {
		_, err := config.NewRunConfig(config.Params{Destination: dest})
		Expect(err).To(MatchError(ContainSubstring("version is required")))
	})

	It("requires a destination unless listing only", func() {
		_, err := config.NewRunConfig(config.Params{Version: "14.2.1"})
		Expect(err).To(MatchError(ContainSubstring("destination")))

		cfg, err := config.NewRunConfig(config.Params{Version: "14.2.1", ListOnly: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.ListOnly).To(BeTrue())
	})

	It("rejects an existing destination without force", func() {
		Expect(os.MkdirAll(dest, 0o755)).To(Succeed())
		_, err := config.NewRunConfig(config.Params{Version: "14.2.1", Destination: dest})
		Expect(err).To(MatchError(ContainSubstring("already exists")))

		_, err = config.NewRunConfig(config.Params{Version: "14.2.1", Destination: dest, Force: true})
		Expect(err).NotTo(HaveOccurred())
	})

	It("parses the pull-request descriptor", func() {
		cfg, err := config.NewRunConfig(config.Params{
			Version:     "14.2.1",
			Destination: dest,
			PullRequest: "template-library-core:jdoe:fix",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.PullRequest).To(Equal(&model.PullRequestSpec{
			Repo:         "template-library-core",
			User:         "jdoe",
			SourceBranch: "fix",
			TargetBranch: "master",
		}))
	})

	It("rejects malformed pull-request descriptors before any VCS work", func() {
		_, err := config.NewRunConfig(config.Params{
			Version:     "14.2.1",
			Destination: dest,
			PullRequest: "only-a-repo",
		})
		Expect(err).To(MatchError(ContainSubstring("malformed pull-request descriptor")))
	})

	It("assembles ignore rules from the toggles", func() {
		cfg, err := config.NewRunConfig(config.Params{Version: refs.MostRecent, Destination: dest, SPMA: true})
		Expect(err).NotTo(HaveOccurred())
		spma := model.ResolvedRef{Name: "sl6.x-x86_64-spma", Family: "sl6.x-x86_64-spma", Version: "sl6.x-x86_64-spma", DisplayFamily: "sl6.x-x86_64-spma"}
		Expect(cfg.Rules.Excluded(spma, refs.MostRecent)).To(BeFalse())
	})

	It("merges the file configuration over the built-in registry", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, config.LocalConfigFilename)
		data := []byte("root_url: https://git.example.org/site\nexclude:\n  - \"**/*.swp\"\nrepos:\n  - name: template-library-site\n    branch_pattern: master\n    dest_template: site\n")
		Expect(os.WriteFile(path, data, 0o644)).To(Succeed())

		cfg, err := config.NewRunConfig(config.Params{Version: "14.2.1", Destination: dest, ConfigPath: path})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Registry.RootURL).To(Equal("https://git.example.org/site"))
		Expect(cfg.Registry.FindByName("template-library-site")).NotTo(BeNil())
		Expect(cfg.Excludes).To(ConsistOf("**/*.swp"))
	})
})

var _ = Describe("ResolveConfigPath", func() {
	It("prefers the explicit override", func() {
		Expect(config.ResolveConfigPath("/etc/tlbuild.yaml", "/tmp")).To(Equal("/etc/tlbuild.yaml"))
	})

	It("falls back to a local file when present", func() {
		cwd := GinkgoT().TempDir()
		Expect(config.ResolveConfigPath("", cwd)).To(Equal(""))
		local := filepath.Join(cwd, config.LocalConfigFilename)
		Expect(os.WriteFile(local, []byte("{}\n"), 0o644)).To(Succeed())
		Expect(config.ResolveConfigPath("", cwd)).To(Equal(local))
	})
})
