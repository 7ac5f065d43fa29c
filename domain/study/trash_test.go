package study_test

import (
	"errors"
	"smartmethods/bizerror"
	"smartmethods/domain"
	"smartmethods/domain/study"
	"smartmethods/event"
	"smartmethods/testinfra"
	"testing"

	. "github.com/onsi/gomega"
)

func TestTrashLifecycle(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("should move studies into trash and restore them", func(t *testing.T) {
		defer teardown(t, testDatabase)
		dispatched := setup(t, &testDatabase)

		s1 := createStudy("First", ann, 1000)
		s2 := createStudy("Second", ann)
		*dispatched = nil

		Expect(study.SoftDeleteStudy(s1.ID, ann)).To(BeNil())
		Expect(study.SoftDeleteStudy(s2.ID, ann)).To(BeNil())
		Expect(errors.Is(study.SoftDeleteStudy(s2.ID, ann), domain.ErrNotFound)).To(BeTrue())

		trash, err := study.QueryTrash(ann)
		Expect(err).To(BeNil())
		Expect(len(trash)).To(Equal(2))
		Expect(trash[0].ID).To(Equal(s2.ID))
		Expect(trash[0].DeleteTime.IsZero()).To(BeFalse())

		restored, err := study.RestoreStudy(s1.ID, ann)
		Expect(err).To(BeNil())
		Expect(restored.DeleteTime.IsZero()).To(BeTrue())
		Expect(restored.StandardTime).To(Equal(s1.StandardTime))

		list, err := study.QueryStudies(&study.StudyQuery{}, ann)
		Expect(err).To(BeNil())
		Expect(len(list)).To(Equal(1))
		Expect(list[0].ID).To(Equal(s1.ID))

		_, err = study.RestoreStudy(s1.ID, ann)
		Expect(errors.Is(err, domain.ErrInvalidState)).To(BeTrue())

		Expect(categories(*dispatched)).To(Equal([]event.EventCategory{
			event.EventCategoryDeleted, event.EventCategoryDeleted, event.EventCategoryRestored}))
	})

	t.Run("should purge only from trash", func(t *testing.T) {
		defer teardown(t, testDatabase)
		dispatched := setup(t, &testDatabase)

		s1 := createStudy("First", ann)
		Expect(errors.Is(study.PurgeStudy(s1.ID, ann), domain.ErrInvalidState)).To(BeTrue())

		Expect(study.SoftDeleteStudy(s1.ID, ann)).To(BeNil())
		Expect(study.PurgeStudy(s1.ID, bob)).To(Equal(bizerror.ErrForbidden))
		Expect(study.PurgeStudy(s1.ID, ann)).To(BeNil())

		Expect(errors.Is(study.PurgeStudy(s1.ID, ann), domain.ErrNotFound)).To(BeTrue())
		_, err := study.RestoreStudy(s1.ID, ann)
		Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())

		trash, err := study.QueryTrash(ann)
		Expect(err).To(BeNil())
		Expect(trash).To(BeEmpty())
		Expect((*dispatched)[len(*dispatched)-1].EventCategory).To(Equal(event.EventCategory(event.EventCategoryPurged)))
	})
}
