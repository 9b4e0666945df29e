package profile_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omnifs/omnifs/internal/profile"
)

var _ = Describe("Profiles", func() {
	Describe("Add", func() {
		It("stores the profile in the backend", func() {
			backend, err := profile.NewMemoryBackend()
			Expect(err).NotTo(HaveOccurred())

			err = profile.Add(backend, "staging", profile.Profile{Backend: "sftp", Addr: "host:22"})
			Expect(err).NotTo(HaveOccurred())

			p, err := profile.Lookup(backend, "staging")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Backend).To(Equal("sftp"))
			Expect(p.Addr).To(Equal("host:22"))
		})

		It("replaces a profile of the same name", func() {
			backend, err := profile.NewMemoryBackend()
			Expect(err).NotTo(HaveOccurred())

			Expect(profile.Add(backend, "staging", profile.Profile{Backend: "sftp"})).To(Succeed())
			Expect(profile.Add(backend, "staging", profile.Profile{Backend: "s3"})).To(Succeed())

			p, err := profile.Lookup(backend, "staging")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Backend).To(Equal("s3"))
		})
	})

	Describe("Lookup", func() {
		It("fails for a name that was never added", func() {
			backend, err := profile.NewMemoryBackend()
			Expect(err).NotTo(HaveOccurred())

			_, err = profile.Lookup(backend, "missing")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(`no profile named "missing"`))
		})
	})

	Describe("Remove", func() {
		It("removes a stored profile", func() {
			backend, err := profile.NewMemoryBackend()
			Expect(err).NotTo(HaveOccurred())

			Expect(profile.Add(backend, "staging", profile.Profile{Backend: "mem"})).To(Succeed())
			Expect(profile.Remove(backend, "staging")).To(Succeed())

			_, err = profile.Lookup(backend, "staging")
			Expect(err).To(HaveOccurred())
		})

		It("fails for a name that was never added", func() {
			backend, err := profile.NewMemoryBackend()
			Expect(err).NotTo(HaveOccurred())

			err = profile.Remove(backend, "missing")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(`no profile named "missing"`))
		})
	})

	Describe("Names", func() {
		It("lists profile names in sorted order", func() {
			backend, err := profile.NewMemoryBackend()
			Expect(err).NotTo(HaveOccurred())

			Expect(profile.Add(backend, "prod", profile.Profile{Backend: "s3"})).To(Succeed())
			Expect(profile.Add(backend, "dev", profile.Profile{Backend: "mem"})).To(Succeed())
			Expect(profile.Add(backend, "staging", profile.Profile{Backend: "sftp"})).To(Succeed())

			names, err := profile.Names(backend)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"dev", "prod", "staging"}))
		})
	})
})
