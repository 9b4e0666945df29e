package fspath_test

import (
	"errors"
	iofs "io/fs"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/omnifs/omnifs/fspath"
)

var _ = Describe("Normalize", func() {
	It("collapses empty and dot components", func() {
		Expect(fspath.Normalize("a//b/./c")).To(Equal("a/b/c"))
		Expect(fspath.Normalize("./a/b")).To(Equal("a/b"))
	})

	It("resolves dotdot against earlier components", func() {
		Expect(fspath.Normalize("a/b/../c")).To(Equal("a/c"))
		Expect(fspath.Normalize("a/b/c/../..")).To(Equal("a"))
	})

	It("treats absolute and relative styles the same", func() {
		Expect(fspath.Normalize("/a/b")).To(Equal("a/b"))
		Expect(fspath.Normalize("a/b")).To(Equal("a/b"))
	})

	It("normalizes the root", func() {
		Expect(fspath.Normalize("/")).To(Equal(fspath.Root))
		Expect(fspath.Normalize(".")).To(Equal(fspath.Root))
		Expect(fspath.Normalize("a/..")).To(Equal(fspath.Root))
	})

	It("strips a trailing separator", func() {
		Expect(fspath.Normalize("a/b/")).To(Equal("a/b"))
	})

	It("keeps components that merely look like dotdot", func() {
		Expect(fspath.Normalize("a/.../b")).To(Equal("a/.../b"))
	})

	It("rejects the empty path", func() {
		_, err := fspath.Normalize("")
		Expect(err).To(MatchError(iofs.ErrInvalid))
	})

	It("rejects paths that climb above the root", func() {
		for _, name := range []string{"..", "../x", "a/../../b", "/.."} {
			_, err := fspath.Normalize(name)
			Expect(err).To(MatchError(iofs.ErrInvalid), "expected %q to be rejected", name)
		}
	})

	It("reports the offending path", func() {
		_, err := fspath.Normalize("../escape")
		var pathErr *iofs.PathError
		Expect(errors.As(err, &pathErr)).To(BeTrue())
		Expect(pathErr.Path).To(Equal("../escape"))
	})
})

var _ = Describe("Clean", func() {
	It("preserves the absolute or relative style", func() {
		Expect(fspath.Clean("/var//log/../tmp")).To(Equal("/var/tmp"))
		Expect(fspath.Clean("www/htdocs/")).To(Equal("www/htdocs"))
	})

	It("rejects what Normalize rejects", func() {
		_, err := fspath.Clean("../above")
		Expect(err).To(MatchError(iofs.ErrInvalid))
	})
})

var _ = Describe("Components", func() {
	It("splits into normalized components", func() {
		Expect(fspath.Components("/a//b/./c")).To(Equal([]string{"a", "b", "c"}))
	})

	It("returns no components for the root", func() {
		Expect(fspath.Components("/")).To(BeEmpty())
	})
})

var _ = Describe("HasDirHint", func() {
	It("detects a trailing separator", func() {
		Expect(fspath.HasDirHint("a/b/")).To(BeTrue())
		Expect(fspath.HasDirHint("a/b")).To(BeFalse())
		Expect(fspath.HasDirHint("/")).To(BeFalse())
	})
})

var _ = Describe("Join and friends", func() {
	It("joins with the separator", func() {
		Expect(fspath.Join("a", "b", "c")).To(Equal("a/b/c"))
		Expect(fspath.Join(fspath.Root, "x")).To(Equal("x"))
	})

	It("keeps escapes for Normalize to reject", func() {
		joined := fspath.Join("a", "../../b")
		_, err := fspath.Normalize(joined)
		Expect(err).To(MatchError(iofs.ErrInvalid))
	})

	It("splits base and dir", func() {
		Expect(fspath.Base("a/b/c")).To(Equal("c"))
		Expect(fspath.Base("a/b/")).To(Equal("b"))
		Expect(fspath.Dir("a/b/c")).To(Equal("a/b"))
		Expect(fspath.Dir("a")).To(Equal(fspath.Root))
	})

	It("recognizes absolute style", func() {
		Expect(fspath.IsAbs("/a")).To(BeTrue())
		Expect(fspath.IsAbs("a")).To(BeFalse())
	})
})
