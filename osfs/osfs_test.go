package osfs_test

import (
	"io"
	iofs "io/fs"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/omnifs/omnifs"
	"github.com/omnifs/omnifs/osfs"
)

var _ = Describe("FS", func() {
	var (
		fsys osfs.FS
		root string
	)

	BeforeEach(func() {
		fsys = osfs.NewFS()
		root = GinkgoT().TempDir()
	})

	at := func(name string) string {
		return filepath.Join(root, name)
	}

	writeFile := func(name, content string) {
		GinkgoHelper()

		file, err := fsys.Create(at(name))
		Expect(err).To(BeNil())
		_, err = file.Write([]byte(content))
		Expect(err).To(BeNil())
		Expect(file.Close()).To(Succeed())
	}

	readFile := func(name string) string {
		GinkgoHelper()

		file, err := fsys.Open(at(name))
		Expect(err).To(BeNil())
		defer file.Close()

		content, err := io.ReadAll(file)
		Expect(err).To(BeNil())
		return string(content)
	}

	It("round-trips content through sync and reopen", func() {
		file, err := fsys.Create(at("file.txt"))
		Expect(err).To(BeNil())
		_, err = file.Write([]byte("here is a test"))
		Expect(err).To(BeNil())
		Expect(file.Sync()).To(Succeed())
		Expect(file.Close()).To(Succeed())

		Expect(readFile("file.txt")).To(Equal("here is a test"))
	})

	Describe("Create", func() {
		It("truncates an existing file", func() {
			writeFile("file.txt", "old content")

			file, err := fsys.Create(at("file.txt"))
			Expect(err).To(BeNil())
			Expect(file.Close()).To(Succeed())

			info, err := fsys.Stat(at("file.txt"))
			Expect(err).To(BeNil())
			Expect(info.Size).To(BeZero())
		})

		It("fails when the parent is missing", func() {
			_, err := fsys.Create(at("missing/file.txt"))
			Expect(err).To(MatchError(omnifs.ErrNotFound))
		})

		It("fails when a parent component is a file", func() {
			writeFile("file.txt", "")

			_, err := fsys.Create(at("file.txt/child"))
			Expect(err).To(MatchError(omnifs.ErrNotDir))
		})

		It("fails when the path is a directory", func() {
			Expect(fsys.Mkdir(at("dir"))).To(Succeed())

			_, err := fsys.Create(at("dir"))
			Expect(err).To(MatchError(omnifs.ErrIsDir))
		})
	})

	Describe("Open", func() {
		It("fails for a missing file", func() {
			_, err := fsys.Open(at("missing.txt"))
			Expect(err).To(MatchError(omnifs.ErrNotFound))
		})

		It("fails for a directory", func() {
			Expect(fsys.Mkdir(at("dir"))).To(Succeed())

			_, err := fsys.Open(at("dir"))
			Expect(err).To(MatchError(omnifs.ErrIsDir))
		})

		It("opens read-write at offset zero", func() {
			writeFile("file.txt", "hello world")

			file, err := fsys.Open(at("file.txt"))
			Expect(err).To(BeNil())
			_, err = file.Write([]byte("HELLO"))
			Expect(err).To(BeNil())
			Expect(file.Close()).To(Succeed())

			Expect(readFile("file.txt")).To(Equal("HELLO world"))
		})
	})

	Describe("Remove", func() {
		It("removes files and refuses directories", func() {
			writeFile("file.txt", "x")
			Expect(fsys.Mkdir(at("dir"))).To(Succeed())

			Expect(fsys.Remove(at("file.txt"))).To(Succeed())
			Expect(fsys.Remove(at("dir"))).To(MatchError(omnifs.ErrIsDir))
			Expect(fsys.Remove(at("missing.txt"))).To(MatchError(omnifs.ErrNotFound))
		})
	})

	Describe("MkdirAll", func() {
		It("is idempotent", func() {
			Expect(fsys.MkdirAll(at("a/b/c"))).To(Succeed())
			Expect(fsys.MkdirAll(at("a/b/c"))).To(Succeed())

			info, err := fsys.Stat(at("a/b/c"))
			Expect(err).To(BeNil())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("fails on an intermediate file and creates nothing", func() {
			writeFile("file.txt", "")

			Expect(fsys.MkdirAll(at("file.txt/a/b"))).To(MatchError(omnifs.ErrNotDir))

			_, err := fsys.Stat(at("file.txt/a"))
			Expect(err).NotTo(BeNil())
		})

		It("fails when the final component is a file", func() {
			writeFile("file.txt", "")

			Expect(fsys.MkdirAll(at("file.txt"))).To(MatchError(omnifs.ErrExist))
		})
	})

	Describe("RemoveDir", func() {
		It("only removes empty directories", func() {
			Expect(fsys.MkdirAll(at("dir"))).To(Succeed())
			writeFile("dir/file.txt", "x")

			Expect(fsys.RemoveDir(at("dir"))).To(MatchError(omnifs.ErrDirNotEmpty))

			Expect(fsys.Remove(at("dir/file.txt"))).To(Succeed())
			Expect(fsys.RemoveDir(at("dir"))).To(Succeed())
		})

		It("refuses files", func() {
			writeFile("file.txt", "")

			Expect(fsys.RemoveDir(at("file.txt"))).To(MatchError(omnifs.ErrNotDir))
		})
	})

	Describe("RemoveAll", func() {
		It("removes a whole subtree", func() {
			Expect(fsys.MkdirAll(at("a/b"))).To(Succeed())
			writeFile("a/file.txt", "1")
			writeFile("a/b/file.txt", "2")

			Expect(fsys.RemoveAll(at("a"))).To(Succeed())

			_, err := fsys.Stat(at("a"))
			Expect(err).To(MatchError(omnifs.ErrNotFound))
		})

		It("fails for a missing directory", func() {
			Expect(fsys.RemoveAll(at("missing"))).To(MatchError(omnifs.ErrNotFound))
		})
	})

	Describe("ReadDir", func() {
		It("lists immediate children with lazily resolved entries", func() {
			Expect(fsys.MkdirAll(at("dir/nested"))).To(Succeed())
			writeFile("dir/file.txt", "x")

			entries, err := fsys.ReadDir(at("dir"))
			Expect(err).To(BeNil())
			Expect(entries).To(HaveLen(2))

			byName := map[string]omnifs.DirEntry{}
			for _, entry := range entries {
				byName[entry.Name()] = entry
			}

			typ, err := byName["nested"].Type()
			Expect(err).To(BeNil())
			Expect(typ).To(Equal(omnifs.TypeDirectory))

			Expect(fsys.Remove(at("dir/file.txt"))).To(Succeed())
			_, err = byName["file.txt"].Type()
			Expect(err).To(MatchError(omnifs.ErrNotFound))
		})

		It("fails for a file", func() {
			writeFile("file.txt", "")

			_, err := fsys.ReadDir(at("file.txt"))
			Expect(err).To(MatchError(omnifs.ErrNotDir))
		})
	})

	Describe("Rename", func() {
		It("moves a file", func() {
			writeFile("old.txt", "content travels")

			Expect(fsys.Rename(at("old.txt"), at("new.txt"))).To(Succeed())

			_, err := fsys.Open(at("old.txt"))
			Expect(err).To(MatchError(omnifs.ErrNotFound))
			Expect(readFile("new.txt")).To(Equal("content travels"))
		})

		It("fails when the source is missing", func() {
			err := fsys.Rename(at("missing.txt"), at("new.txt"))
			Expect(err).To(MatchError(omnifs.ErrNotFound))
		})
	})

	Describe("Chmod", func() {
		It("records the new mode", func() {
			writeFile("file.txt", "")

			Expect(fsys.Chmod(at("file.txt"), 0o600)).To(Succeed())

			info, err := fsys.Stat(at("file.txt"))
			Expect(err).To(BeNil())
			Expect(info.Mode).To(Equal(iofs.FileMode(0o600)))
		})
	})
})
