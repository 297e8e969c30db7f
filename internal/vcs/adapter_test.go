package vcs_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/tlbuild/internal/vcs"
)

type recordingRunner struct {
	calls [][]string
	out   string
	err   error
}

func (r *recordingRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	r.calls = append(r.calls, args)
	return r.out, r.err
}

var _ = Describe("GitAdapter", func() {
	It("uses a default runner when none is given", func() {
		adapter := vcs.NewGitAdapter(nil)
		Expect(adapter.Runner).NotTo(BeNil())
		Expect(adapter.Name()).To(Equal("git"))
	})

	It("forwards operations to the runner with the expected arguments", func() {
		runner := &recordingRunner{}
		adapter := vcs.NewGitAdapter(runner)
		ctx := context.Background()

		Expect(adapter.Clone(ctx, "https://example.org/repo", "/tmp/clone")).To(Succeed())
		Expect(adapter.Checkout(ctx, "/tmp/clone", "template-library-14.2.1")).To(Succeed())
		Expect(adapter.AddRemote(ctx, "/tmp/clone", "jdoe", "https://example.org/fork")).To(Succeed())
		Expect(adapter.CleanUntracked(ctx, "/tmp/clone")).To(Succeed())

		var joined []string
		for _, call := range runner.calls {
			joined = append(joined, strings.Join(call, " "))
		}
		Expect(joined).To(Equal([]string{
			"clone https://example.org/repo /tmp/clone",
			"checkout template-library-14.2.1",
			"remote add jdoe https://example.org/fork",
			"clean -fd",
		}))
	})

	It("propagates runner failures", func() {
		runner := &recordingRunner{err: errors.New("exit status 1")}
		adapter := vcs.NewGitAdapter(runner)
		Expect(adapter.Checkout(context.Background(), "/tmp/clone", "missing")).NotTo(Succeed())
	})
})

var _ = Describe("FatalError", func() {
	It("carries operation and repository context", func() {
		err := &vcs.FatalError{Op: "clone", Repo: "template-library-core", Err: errors.New("exit status 128")}
		Expect(err.Error()).To(ContainSubstring("clone failed for template-library-core"))
		Expect(errors.Unwrap(err)).To(MatchError("exit status 128"))
	})
})
