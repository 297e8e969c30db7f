package fstree_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/tlbuild/internal/fstree"
)

func writeFile(path, content string) {
	ExpectWithOffset(1, os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
	ExpectWithOffset(1, os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
}

var _ = Describe("CopyTreeInto", func() {
	var src, dest string

	BeforeEach(func() {
		src = GinkgoT().TempDir()
		dest = filepath.Join(GinkgoT().TempDir(), "out")
		writeFile(filepath.Join(src, "config.pan"), "template config;\n")
		writeFile(filepath.Join(src, "os", "base.pan"), "template os/base;\n")
		writeFile(filepath.Join(src, ".git", "HEAD"), "ref: refs/heads/master\n")
	})

	It("copies files and directories, skipping .git", func() {
		Expect(fstree.CopyTreeInto(src, dest, nil)).To(Succeed())
		Expect(filepath.Join(dest, "config.pan")).To(BeARegularFile())
		Expect(filepath.Join(dest, "os", "base.pan")).To(BeARegularFile())
		Expect(filepath.Join(dest, ".git")).NotTo(BeADirectory())
	})

	It("is overwrite-idempotent", func() {
		Expect(fstree.CopyTreeInto(src, dest, nil)).To(Succeed())
		Expect(fstree.CopyTreeInto(src, dest, nil)).To(Succeed())
		data, err := os.ReadFile(filepath.Join(dest, "config.pan"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("template config;\n"))
	})

	It("overwrites stale content in the destination", func() {
		Expect(fstree.MakeDirectories(dest)).To(Succeed())
		writeFile(filepath.Join(dest, "config.pan"), "stale\n")
		Expect(fstree.CopyTreeInto(src, dest, nil)).To(Succeed())
		data, err := os.ReadFile(filepath.Join(dest, "config.pan"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("template config;\n"))
	})

	It("honors exclude globs", func() {
		writeFile(filepath.Join(src, "docs", "notes.md"), "notes\n")
		Expect(fstree.CopyTreeInto(src, dest, []string{"docs", "**/*.md"})).To(Succeed())
		Expect(filepath.Join(dest, "config.pan")).To(BeARegularFile())
		Expect(filepath.Join(dest, "docs")).NotTo(BeADirectory())
	})
})

var _ = Describe("MakeDirectories and RemoveTree", func() {
	It("creates parents and removes recursively", func() {
		root := GinkgoT().TempDir()
		nested := filepath.Join(root, "a", "b", "c")
		Expect(fstree.MakeDirectories(nested)).To(Succeed())
		Expect(fstree.MakeDirectories(nested)).To(Succeed())
		Expect(nested).To(BeADirectory())
		Expect(fstree.RemoveTree(filepath.Join(root, "a"))).To(Succeed())
		Expect(filepath.Join(root, "a")).NotTo(BeADirectory())
	})
})
