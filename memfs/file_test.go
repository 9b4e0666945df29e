package memfs_test

import (
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/omnifs/omnifs"
	"github.com/omnifs/omnifs/memfs"
)

var _ = Describe("File", func() {
	var m *memfs.FS

	BeforeEach(func() {
		m = memfs.NewFS()
	})

	It("round-trips content through sync", func() {
		file, err := m.Create("file.txt")
		Expect(err).To(BeNil())

		n, err := file.Write([]byte("here is a test"))
		Expect(err).To(BeNil())
		Expect(n).To(Equal(14))
		Expect(file.Sync()).To(Succeed())
		Expect(file.Close()).To(Succeed())

		Expect(readFile(m, "file.txt")).To(Equal("here is a test"))
	})

	It("keeps writes invisible until they are synced", func() {
		writeFile(m, "file.txt", "old")

		writer, err := m.Open("file.txt")
		Expect(err).To(BeNil())
		_, err = writer.Write([]byte("new content"))
		Expect(err).To(BeNil())

		Expect(readFile(m, "file.txt")).To(Equal("old"))

		Expect(writer.Sync()).To(Succeed())
		Expect(readFile(m, "file.txt")).To(Equal("new content"))
		Expect(writer.Close()).To(Succeed())
	})

	It("lets a clean handle observe commits made after it was opened", func() {
		writeFile(m, "file.txt", "old")

		reader, err := m.Open("file.txt")
		Expect(err).To(BeNil())
		writer, err := m.Open("file.txt")
		Expect(err).To(BeNil())

		_, err = writer.Write([]byte("new content"))
		Expect(err).To(BeNil())
		Expect(writer.Sync()).To(Succeed())

		content, err := io.ReadAll(reader)
		Expect(err).To(BeNil())
		Expect(string(content)).To(Equal("new content"))

		Expect(reader.Close()).To(Succeed())
		Expect(writer.Close()).To(Succeed())
	})

	It("commits outstanding writes on close", func() {
		file, err := m.Create("file.txt")
		Expect(err).To(BeNil())
		_, err = file.Write([]byte("closed over"))
		Expect(err).To(BeNil())
		Expect(file.Close()).To(Succeed())

		Expect(readFile(m, "file.txt")).To(Equal("closed over"))
	})

	It("loses writes that were never synced or closed", func() {
		writeFile(m, "file.txt", "old")

		abandoned, err := m.Open("file.txt")
		Expect(err).To(BeNil())
		_, err = abandoned.Write([]byte("never published"))
		Expect(err).To(BeNil())

		Expect(readFile(m, "file.txt")).To(Equal("old"))
	})

	It("overwrites in place without truncating the tail", func() {
		writeFile(m, "file.txt", "hello world")

		file, err := m.Open("file.txt")
		Expect(err).To(BeNil())
		_, err = file.Write([]byte("HELLO"))
		Expect(err).To(BeNil())
		Expect(file.Close()).To(Succeed())

		Expect(readFile(m, "file.txt")).To(Equal("HELLO world"))
	})

	Describe("Seek", func() {
		It("supports all three whence modes", func() {
			writeFile(m, "file.txt", "0123456789")

			file, err := m.Open("file.txt")
			Expect(err).To(BeNil())
			defer file.Close()

			pos, err := file.Seek(4, io.SeekStart)
			Expect(err).To(BeNil())
			Expect(pos).To(Equal(int64(4)))

			pos, err = file.Seek(2, io.SeekCurrent)
			Expect(err).To(BeNil())
			Expect(pos).To(Equal(int64(6)))

			pos, err = file.Seek(-3, io.SeekEnd)
			Expect(err).To(BeNil())
			Expect(pos).To(Equal(int64(7)))

			rest, err := io.ReadAll(file)
			Expect(err).To(BeNil())
			Expect(string(rest)).To(Equal("789"))
		})

		It("rejects a negative resulting offset", func() {
			file, err := m.Create("file.txt")
			Expect(err).To(BeNil())
			defer file.Close()

			_, err = file.Seek(-1, io.SeekStart)
			Expect(err).To(MatchError(omnifs.ErrInvalidPath))
		})

		It("zero-fills the gap when writing past the end", func() {
			file, err := m.Create("file.txt")
			Expect(err).To(BeNil())

			_, err = file.Seek(3, io.SeekStart)
			Expect(err).To(BeNil())
			_, err = file.Write([]byte("abc"))
			Expect(err).To(BeNil())
			Expect(file.Close()).To(Succeed())

			Expect(readFile(m, "file.txt")).To(Equal("\x00\x00\x00abc"))
		})
	})

	It("reports EOF once the content is exhausted", func() {
		writeFile(m, "file.txt", "x")

		file, err := m.Open("file.txt")
		Expect(err).To(BeNil())
		defer file.Close()

		buf := make([]byte, 8)
		n, err := file.Read(buf)
		Expect(err).To(BeNil())
		Expect(n).To(Equal(1))

		_, err = file.Read(buf)
		Expect(err).To(Equal(io.EOF))
	})

	It("rejects every operation on a closed handle", func() {
		file, err := m.Create("file.txt")
		Expect(err).To(BeNil())
		Expect(file.Close()).To(Succeed())

		buf := make([]byte, 1)
		_, err = file.Read(buf)
		Expect(err).To(MatchError(omnifs.ErrClosed))
		_, err = file.Write([]byte("x"))
		Expect(err).To(MatchError(omnifs.ErrClosed))
		_, err = file.Seek(0, io.SeekStart)
		Expect(err).To(MatchError(omnifs.ErrClosed))
		Expect(file.Sync()).To(MatchError(omnifs.ErrClosed))
		Expect(file.Close()).To(MatchError(omnifs.ErrClosed))
	})

	It("reports the canonical path as its name", func() {
		file, err := m.Create("/a//b/../file.txt")
		Expect(err).To(MatchError(omnifs.ErrNotFound))
		Expect(file).To(BeNil())

		file, err = m.Create("//file.txt")
		Expect(err).To(BeNil())
		defer file.Close()
		Expect(file.Name()).To(Equal("file.txt"))
	})

	It("keeps an open handle usable after the file is removed", func() {
		writeFile(m, "file.txt", "orphaned")

		file, err := m.Open("file.txt")
		Expect(err).To(BeNil())
		Expect(m.Remove("file.txt")).To(Succeed())

		content, err := io.ReadAll(file)
		Expect(err).To(BeNil())
		Expect(string(content)).To(Equal("orphaned"))

		_, err = file.Write([]byte(" still writable"))
		Expect(err).To(BeNil())
		Expect(file.Close()).To(Succeed())

		_, err = m.Open("file.txt")
		Expect(err).To(MatchError(omnifs.ErrNotFound))
	})
})
