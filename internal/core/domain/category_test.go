package domain_test

import (
	"encoding/json"

	"asset-server/internal/core/domain"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Category", func() {
	var category domain.Category

	ginkgo.BeforeEach(func() {
		var err error
		category, err = domain.NewCategoryBuilder().
			WithName("Laptops").
			WithField("serial_number", "Serial Number", domain.FieldTypeText, true).
			WithField("ram_gb", "RAM (GB)", domain.FieldTypeNumber, false).
			Build()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	})

	ginkgo.Context("building", func() {
		ginkgo.It("assigns an id, version 1 and a schema snapshot", func() {
			gomega.Expect(category.ID).NotTo(gomega.BeEmpty())
			gomega.Expect(category.Version).To(gomega.Equal(domain.Version(1)))
			gomega.Expect(category.Schema).To(gomega.HaveLen(2))
			gomega.Expect(category.Schema["serial_number"].Required).To(gomega.BeTrue())
		})

		ginkgo.When("the name is empty", func() {
			ginkgo.It("fails", func() {
				_, err := domain.NewCategoryBuilder().Build()
				gomega.Expect(err).To(gomega.MatchError(domain.ErrEmptyCategoryName))
			})
		})
	})

	ginkgo.Context("DefineField", func() {
		ginkgo.It("appends the field and refreshes the snapshot", func() {
			err := category.DefineField("warranty_expiry", "Warranty Expiry", domain.FieldTypeDate, false)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(category.Schema).To(gomega.HaveKey("warranty_expiry"))
			gomega.Expect(category.Schema["warranty_expiry"].Type).To(gomega.Equal(domain.FieldTypeDate))
		})

		ginkgo.When("the key already exists", func() {
			ginkgo.It("fails with a duplicate key error", func() {
				err := category.DefineField("serial_number", "Serial", domain.FieldTypeText, false)
				gomega.Expect(err).To(gomega.MatchError(domain.ErrDuplicateFieldKey))
			})
		})

		ginkgo.When("the key is empty", func() {
			ginkgo.It("fails", func() {
				err := category.DefineField("", "Nameless", domain.FieldTypeText, false)
				gomega.Expect(err).To(gomega.MatchError(domain.ErrEmptyFieldKey))
			})
		})

		ginkgo.When("the type is unknown", func() {
			ginkgo.It("fails", func() {
				err := category.DefineField("color", "Color", domain.FieldType("enum"), false)
				gomega.Expect(err).To(gomega.MatchError(domain.ErrInvalidFieldType))
			})
		})
	})

	ginkgo.Context("UpdateField", func() {
		ginkgo.It("edits label and required-ness only", func() {
			err := category.UpdateField("ram_gb", "Memory (GB)", true)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(category.Schema["ram_gb"].Label).To(gomega.Equal("Memory (GB)"))
			gomega.Expect(category.Schema["ram_gb"].Required).To(gomega.BeTrue())
			gomega.Expect(category.Schema["ram_gb"].Type).To(gomega.Equal(domain.FieldTypeNumber))
		})

		ginkgo.It("reports a missing key", func() {
			err := category.UpdateField("nope", "Nope", false)
			gomega.Expect(err).To(gomega.MatchError(domain.ErrFieldNotFound))
		})
	})

	ginkgo.Context("RemoveField", func() {
		ginkgo.It("drops the field from definitions and snapshot", func() {
			err := category.RemoveField("ram_gb")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(category.Fields).To(gomega.HaveLen(1))
			gomega.Expect(category.Schema).NotTo(gomega.HaveKey("ram_gb"))
		})

		ginkgo.It("reports a missing key", func() {
			err := category.RemoveField("nope")
			gomega.Expect(err).To(gomega.MatchError(domain.ErrFieldNotFound))
		})
	})

	ginkgo.Context("RegenerateSchema", func() {
		ginkgo.It("is idempotent down to the serialized form", func() {
			first, err := json.Marshal(category.Schema)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			category.RegenerateSchema()
			second, err := json.Marshal(category.Schema)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(second).To(gomega.Equal(first))
		})
	})

	ginkgo.Context("FieldKeys", func() {
		ginkgo.It("preserves definition order", func() {
			gomega.Expect(category.FieldKeys()).To(gomega.Equal([]string{"serial_number", "ram_gb"}))

			err := category.DefineField("warranty_expiry", "Warranty Expiry", domain.FieldTypeDate, false)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(category.FieldKeys()).To(gomega.Equal([]string{"serial_number", "ram_gb", "warranty_expiry"}))
		})
	})
})
