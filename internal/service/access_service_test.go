package service

import (
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/repository"
	"testing"

	"gorm.io/gorm"
)

func newAccessService(db *gorm.DB) *AccessService {
	return NewAccessService(repository.NewCourseRepository(db), repository.NewSubscriptionRepository(db))
}

// seedHierarchy creates course -> subject -> chapter -> topic and returns
// them. The course is paid.
func seedHierarchy(t *testing.T, db *gorm.DB) (*model.Course, *model.Subject, *model.Chapter, *model.Topic) {
	t.Helper()

	course := &model.Course{Title: "JEE Physics", IsPaid: true, Price: 999}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	subject := &model.Subject{CourseID: course.ID, Title: "Mechanics"}
	if err := db.Create(subject).Error; err != nil {
		t.Fatalf("seed subject: %v", err)
	}
	chapter := &model.Chapter{SubjectID: subject.ID, Title: "Kinematics"}
	if err := db.Create(chapter).Error; err != nil {
		t.Fatalf("seed chapter: %v", err)
	}
	topic := &model.Topic{ChapterID: chapter.ID, Title: "Projectile Motion", StudyNotes: "v = u + at"}
	if err := db.Create(topic).Error; err != nil {
		t.Fatalf("seed topic: %v", err)
	}
	return course, subject, chapter, topic
}

func TestResolveCourseForExam(t *testing.T) {
	db := newTestDB(t)
	svc := newAccessService(db)
	course, subject, chapter, _ := seedHierarchy(t, db)

	cases := []struct {
		name string
		exam model.Exam
	}{
		{"chapter owner", model.Exam{OwnerType: model.OwnerChapter, OwnerID: chapter.ID}},
		{"subject owner", model.Exam{OwnerType: model.OwnerSubject, OwnerID: subject.ID}},
		{"course owner", model.Exam{OwnerType: model.OwnerCourse, OwnerID: course.ID}},
	}
	for _, tc := range cases {
		resolved, err := svc.ResolveCourseForExam(&tc.exam)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if resolved == nil || resolved.ID != course.ID {
			t.Errorf("%s: resolved %v, want course %d", tc.name, resolved, course.ID)
		}
	}

	// Dangling owner resolves to nil, not an error.
	dangling := model.Exam{OwnerType: model.OwnerChapter, OwnerID: 9999}
	resolved, err := svc.ResolveCourseForExam(&dangling)
	if err != nil {
		t.Fatalf("dangling owner: %v", err)
	}
	if resolved != nil {
		t.Errorf("dangling owner resolved to course %d, want nil", resolved.ID)
	}
}

func TestCanAccess(t *testing.T) {
	db := newTestDB(t)
	svc := newAccessService(db)
	course, _, _, _ := seedHierarchy(t, db)

	free := &model.Course{Title: "Free Starter Pack", IsPaid: false}
	if err := db.Create(free).Error; err != nil {
		t.Fatalf("seed free course: %v", err)
	}

	// Admins bypass the gate entirely.
	if ok, _ := svc.CanAccess(1, model.Admin, course); !ok {
		t.Error("admin denied paid course")
	}

	// Free courses are open to everyone.
	if ok, _ := svc.CanAccess(1, model.Student, free); !ok {
		t.Error("student denied free course")
	}

	// Paid course without a subscription is closed.
	if ok, _ := svc.CanAccess(1, model.Student, course); ok {
		t.Error("student allowed into paid course without subscription")
	}

	// Subscribing opens it.
	if _, err := svc.Subscribe(1, course.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if ok, _ := svc.CanAccess(1, model.Student, course); !ok {
		t.Error("subscriber denied paid course")
	}

	// A deactivated subscription closes it again.
	if err := svc.SubscriptionRepo.Deactivate(1, course.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if ok, _ := svc.CanAccess(1, model.Student, course); ok {
		t.Error("student allowed with inactive subscription")
	}

	// Unresolvable content falls open.
	if ok, _ := svc.CanAccess(1, model.Student, nil); !ok {
		t.Error("content without a course should fall open")
	}
}

func TestSubscribeUnknownCourse(t *testing.T) {
	svc := newAccessService(newTestDB(t))

	if _, err := svc.Subscribe(1, 999); err == nil {
		t.Error("subscribing to a missing course should fail")
	}
}
