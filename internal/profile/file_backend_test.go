package profile_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/goccy/go-yaml"

	"github.com/omnifs/omnifs"
	"github.com/omnifs/omnifs/internal/mocks"
	"github.com/omnifs/omnifs/internal/profile"
)

var _ = Describe("FileBackend", func() {
	var mockFS *mocks.FileSystem

	BeforeEach(func() {
		mockFS = new(mocks.FileSystem)
	})

	Describe("Load", func() {
		Context("when the profile store does not exist", func() {
			BeforeEach(func() {
				mockFS.MockOpen = func(name string) (omnifs.File, error) {
					Expect(name).To(Equal("some/dir/profiles.yaml"))
					return nil, omnifs.ErrNotFound
				}
			})

			It("returns an empty store", func() {
				backend, err := profile.NewFileBackend("some/dir", mockFS)
				Expect(err).NotTo(HaveOccurred())

				profiles, err := backend.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(profiles).To(BeEmpty())
			})
		})

		Context("when the profile store is otherwise unable to be opened", func() {
			BeforeEach(func() {
				mockFS.MockOpen = func(name string) (omnifs.File, error) {
					Expect(name).To(Equal("some/dir/profiles.yaml"))
					return nil, omnifs.ErrPermission
				}
			})

			It("returns an error", func() {
				backend, err := profile.NewFileBackend("some/dir", mockFS)
				Expect(err).NotTo(HaveOccurred())

				profiles, err := backend.Load()
				Expect(err.Error()).To(ContainSubstring("unable to open"))
				Expect(err).To(MatchError(omnifs.ErrPermission))
				Expect(profiles).To(BeNil())
			})
		})

		Context("when the profile store has contents", func() {
			BeforeEach(func() {
				mockFS.MockOpen = func(name string) (omnifs.File, error) {
					Expect(name).To(Equal("some/dir/profiles.yaml"))
					contents := "staging:\n  backend: sftp\n  addr: sftp.example.com:22\n  user: deploy\n"
					return mocks.NewFile(name, contents), nil
				}
			})

			It("returns the parsed profiles", func() {
				backend, err := profile.NewFileBackend("some/dir", mockFS)
				Expect(err).NotTo(HaveOccurred())

				profiles, err := backend.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(profiles).To(HaveLen(1))
				Expect(profiles["staging"].Backend).To(Equal("sftp"))
				Expect(profiles["staging"].Addr).To(Equal("sftp.example.com:22"))
				Expect(profiles["staging"].User).To(Equal("deploy"))
			})
		})

		Context("when the profile store is not valid YAML", func() {
			BeforeEach(func() {
				mockFS.MockOpen = func(name string) (omnifs.File, error) {
					return mocks.NewFile(name, "\tnot yaml"), nil
				}
			})

			It("returns an error", func() {
				backend, err := profile.NewFileBackend("some/dir", mockFS)
				Expect(err).NotTo(HaveOccurred())

				_, err = backend.Load()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("unable to parse"))
			})
		})
	})

	Describe("Save", func() {
		Context("when creating the store errors", func() {
			BeforeEach(func() {
				mockFS.MockMkdirAll = func(name string) error {
					Expect(name).To(Equal("some/dir"))
					return nil
				}
				mockFS.MockCreate = func(name string) (omnifs.File, error) {
					Expect(name).To(Equal("some/dir/profiles.yaml"))
					return nil, omnifs.ErrPermission
				}
			})

			It("returns an error", func() {
				backend, err := profile.NewFileBackend("some/dir", mockFS)
				Expect(err).NotTo(HaveOccurred())

				err = backend.Save(profile.Store{"prod": {Backend: "s3"}})
				Expect(err.Error()).To(ContainSubstring("unable to create"))
				Expect(err).To(MatchError(omnifs.ErrPermission))
			})
		})

		Context("when the store is created", func() {
			var file *mocks.File

			BeforeEach(func() {
				mockFS.MockMkdirAll = func(name string) error {
					Expect(name).To(Equal("some/dir"))
					return nil
				}
				mockFS.MockCreate = func(name string) (omnifs.File, error) {
					Expect(name).To(Equal("some/dir/profiles.yaml"))
					file = mocks.NewFile(name, "")
					return file, nil
				}
			})

			It("writes the profiles as YAML and closes the handle", func() {
				backend, err := profile.NewFileBackend("some/dir", mockFS)
				Expect(err).NotTo(HaveOccurred())

				err = backend.Save(profile.Store{
					"prod": {Backend: "s3", Endpoint: "s3.example.com", Bucket: "assets"},
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(file.Closed).To(BeTrue())

				var written profile.Store
				Expect(yaml.Unmarshal(file.Bytes(), &written)).To(Succeed())
				Expect(written["prod"].Backend).To(Equal("s3"))
				Expect(written["prod"].Bucket).To(Equal("assets"))
			})
		})
	})
})
