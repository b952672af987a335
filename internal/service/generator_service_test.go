package service

import (
	"bitbybit_backend/internal/config"
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/repository"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const generatedPayload = `[
  {"question_text": "What is v after 2s from rest at a = 5 m/s^2?", "options": ["10 m/s", "5 m/s", "2 m/s", "20 m/s"], "correct_index": 0, "marks": 2},
  {"question_text": "Which equation relates v, u, a and t?", "options": ["v = u + at", "v = u - at", "v = at^2", "v = u/t"], "correct_index": 0, "marks": 2}
]`

// fakeCompletionServer mimics an OpenAI-style chat completions endpoint
// returning the given content.
func fakeCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		resp := ChatCompletionResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message AIChatMessage `json:"message"`
		}{Message: AIChatMessage{Role: "assistant", Content: content}})
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestParseGeneratedQuestions(t *testing.T) {
	questions, err := ParseGeneratedQuestions("```json\n" + generatedPayload + "\n```")
	if err != nil {
		t.Fatalf("parse fenced output: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("parsed %d questions, want 2", len(questions))
	}
	if questions[0].CorrectIndex != 0 || questions[0].Marks != 2 {
		t.Errorf("unexpected first question: %+v", questions[0])
	}

	if _, err := ParseGeneratedQuestions(`[{"question_text": "q", "options": ["a", "b"], "correct_index": 0}]`); err == nil {
		t.Error("3-option question accepted, want error")
	}
	if _, err := ParseGeneratedQuestions(`[{"question_text": "q", "options": ["a", "b", "c", "d"], "correct_index": 4}]`); err == nil {
		t.Error("out-of-range correct_index accepted, want error")
	}
	if _, err := ParseGeneratedQuestions("the model apologizes instead of answering"); err == nil {
		t.Error("non-JSON output accepted, want error")
	}
}

func TestGenerateExamFromTopic(t *testing.T) {
	db := newTestDB(t)
	_, _, chapter, topic := seedHierarchy(t, db)

	server := fakeCompletionServer(t, generatedPayload)
	defer server.Close()

	ai := NewAIService(config.AIConfig{BaseURL: server.URL, Model: "test-model"})
	svc := NewGeneratorService(ai, repository.NewCourseRepository(db), db)

	exam, err := svc.GenerateExamFromTopic(topic.ID, 2, "Easy")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if exam.ExamType != model.ExamTypeTopicQuiz {
		t.Errorf("exam type = %s, want topic_quiz", exam.ExamType)
	}
	if exam.OwnerType != model.OwnerChapter || exam.OwnerID != chapter.ID {
		t.Errorf("owner = %s/%d, want chapter/%d", exam.OwnerType, exam.OwnerID, chapter.ID)
	}
	if !strings.HasSuffix(exam.Title, " Quiz") {
		t.Errorf("title = %q, want topic title with Quiz suffix", exam.Title)
	}
	if exam.TotalMarks != 4 {
		t.Errorf("total marks = %d, want 4", exam.TotalMarks)
	}

	var questions []model.Question
	if err := db.Preload("Options").Where("exam_id = ?", exam.ID).Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("persisted %d questions, want 2", len(questions))
	}
	for _, q := range questions {
		if len(q.Options) != 4 {
			t.Errorf("question %d has %d options, want 4", q.ID, len(q.Options))
		}
		correct := 0
		for _, o := range q.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			t.Errorf("question %d has %d correct options, want 1", q.ID, correct)
		}
	}
}

func TestGenerateExamRequiresNotes(t *testing.T) {
	db := newTestDB(t)
	_, _, chapter, _ := seedHierarchy(t, db)

	bare := &model.Topic{ChapterID: chapter.ID, Title: "Empty Topic"}
	if err := db.Create(bare).Error; err != nil {
		t.Fatalf("seed topic: %v", err)
	}

	ai := NewAIService(config.AIConfig{BaseURL: "http://127.0.0.1:0"})
	svc := NewGeneratorService(ai, repository.NewCourseRepository(db), db)

	if _, err := svc.GenerateExamFromTopic(bare.ID, 2, ""); err == nil {
		t.Error("topic without notes accepted, want error")
	}
	if _, err := svc.GenerateExamFromTopic(9999, 2, ""); err == nil {
		t.Error("unknown topic accepted, want error")
	}
}

func TestGenerateExamFallsBackOnModelFailure(t *testing.T) {
	db := newTestDB(t)
	_, _, chapter, topic := seedHierarchy(t, db)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	ai := NewAIService(config.AIConfig{BaseURL: server.URL, Model: "test-model"})
	svc := NewGeneratorService(ai, repository.NewCourseRepository(db), db)

	exam, err := svc.GenerateExamFromTopic(topic.ID, 2, "Easy")
	if err != nil {
		t.Fatalf("generate with failing model: %v", err)
	}

	if exam.OwnerType != model.OwnerChapter || exam.OwnerID != chapter.ID {
		t.Errorf("owner = %s/%d, want chapter/%d", exam.OwnerType, exam.OwnerID, chapter.ID)
	}
	if exam.TotalMarks != 0 {
		t.Errorf("total marks = %d, want 0 for placeholder exam", exam.TotalMarks)
	}

	var questions []model.Question
	if err := db.Preload("Options").Where("exam_id = ?", exam.ID).Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("persisted %d questions, want the single placeholder", len(questions))
	}
	q := questions[0]
	if q.TextContent != "Error generating questions. Please try again." {
		t.Errorf("placeholder text = %q", q.TextContent)
	}
	if q.Marks != 0 {
		t.Errorf("placeholder marks = %v, want 0", q.Marks)
	}
	if len(q.Options) != 4 {
		t.Fatalf("placeholder has %d options, want 4", len(q.Options))
	}
	if !q.Options[0].IsCorrect {
		t.Error("first placeholder option should be flagged correct")
	}
}
