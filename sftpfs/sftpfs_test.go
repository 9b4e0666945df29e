package sftpfs_test

import (
	"fmt"
	"io"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/omnifs/omnifs"
	"github.com/omnifs/omnifs/sftpfs"
)

var _ = Describe("NewFS", func() {
	It("classifies an unreachable server as unavailable", func() {
		_, err := sftpfs.NewFS(sftpfs.Config{
			Addr:     "127.0.0.1:1",
			User:     "user",
			Password: "secret",
			Timeout:  time.Second,
		})
		Expect(err).To(MatchError(omnifs.ErrUnavailable))
	})

	It("rejects an incomplete config before dialing", func() {
		_, err := sftpfs.NewFS(sftpfs.Config{Addr: "host:22"})
		Expect(err).To(MatchError(ContainSubstring("missing user")))
	})
})

// Contract coverage against a live server. Point OMNIFS_TEST_SFTP_ADDR at
// an SSH server with SFTP enabled, for example a local container:
//
//	OMNIFS_TEST_SFTP_ADDR=127.0.0.1:2222
//	OMNIFS_TEST_SFTP_USER=demo
//	OMNIFS_TEST_SFTP_PASSWORD=demo
var _ = Describe("FS", func() {
	var (
		fsys *sftpfs.FS
		root string
	)

	BeforeEach(func() {
		addr := os.Getenv("OMNIFS_TEST_SFTP_ADDR")
		if addr == "" {
			Skip("OMNIFS_TEST_SFTP_ADDR is not set")
		}

		var err error
		fsys, err = sftpfs.NewFS(sftpfs.Config{
			Addr:     addr,
			User:     os.Getenv("OMNIFS_TEST_SFTP_USER"),
			Password: os.Getenv("OMNIFS_TEST_SFTP_PASSWORD"),
		})
		Expect(err).To(BeNil())

		root = fmt.Sprintf("omnifs-test-%d", GinkgoRandomSeed())
		Expect(fsys.MkdirAll(root)).To(Succeed())

		DeferCleanup(func() {
			Expect(fsys.RemoveAll(root)).To(Succeed())
			Expect(fsys.Close()).To(Succeed())
		})
	})

	It("round-trips content through sync and reopen", func() {
		name := root + "/file.txt"

		file, err := fsys.Create(name)
		Expect(err).To(BeNil())
		_, err = file.Write([]byte("here is a test"))
		Expect(err).To(BeNil())
		Expect(file.Sync()).To(Succeed())
		Expect(file.Close()).To(Succeed())

		file, err = fsys.Open(name)
		Expect(err).To(BeNil())
		content, err := io.ReadAll(file)
		Expect(err).To(BeNil())
		Expect(string(content)).To(Equal("here is a test"))
		Expect(file.Close()).To(Succeed())
	})

	It("maps missing paths onto the taxonomy", func() {
		_, err := fsys.Open(root + "/missing.txt")
		Expect(err).To(MatchError(omnifs.ErrNotFound))

		_, err = fsys.Stat(root + "/missing.txt")
		Expect(err).To(MatchError(omnifs.ErrNotFound))
	})

	It("creates and lists directories", func() {
		Expect(fsys.MkdirAll(root + "/a/b")).To(Succeed())
		Expect(fsys.MkdirAll(root + "/a/b")).To(Succeed())

		file, err := fsys.Create(root + "/a/file.txt")
		Expect(err).To(BeNil())
		Expect(file.Close()).To(Succeed())

		entries, err := fsys.ReadDir(root + "/a")
		Expect(err).To(BeNil())

		names := make([]string, len(entries))
		for i, entry := range entries {
			names[i] = entry.Name()
		}
		Expect(names).To(ConsistOf("b", "file.txt"))
	})

	It("enforces directory removal semantics", func() {
		Expect(fsys.MkdirAll(root + "/dir")).To(Succeed())
		file, err := fsys.Create(root + "/dir/file.txt")
		Expect(err).To(BeNil())
		Expect(file.Close()).To(Succeed())

		Expect(fsys.RemoveDir(root + "/dir")).To(MatchError(omnifs.ErrDirNotEmpty))
		Expect(fsys.RemoveAll(root + "/dir")).To(Succeed())

		_, err = fsys.Stat(root + "/dir")
		Expect(err).To(MatchError(omnifs.ErrNotFound))
	})

	It("renames without replacing an existing target", func() {
		old := root + "/old.txt"
		file, err := fsys.Create(old)
		Expect(err).To(BeNil())
		_, err = file.Write([]byte("content travels"))
		Expect(err).To(BeNil())
		Expect(file.Close()).To(Succeed())

		Expect(fsys.Rename(old, root+"/new.txt")).To(Succeed())

		_, err = fsys.Open(old)
		Expect(err).To(MatchError(omnifs.ErrNotFound))

		blocker, err := fsys.Create(old)
		Expect(err).To(BeNil())
		Expect(blocker.Close()).To(Succeed())
		Expect(fsys.Rename(root+"/new.txt", old)).To(MatchError(omnifs.ErrExist))
	})

	It("rejects escaping paths without touching the server", func() {
		_, err := fsys.Open("../escape.txt")
		Expect(err).To(MatchError(omnifs.ErrInvalidPath))
	})
})
