package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"learnhub/api/internal/model"
	"learnhub/api/internal/repository"
)

// Courses

type createCourseRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"`
	Instructor   string `json:"instructor"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ContentURL   string `json:"contentUrl"`
	VideoURL     string `json:"videoUrl"`
}

type updateCourseRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Duration     *int    `json:"duration,omitempty"`
	Instructor   *string `json:"instructor,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
	ContentURL   *string `json:"contentUrl,omitempty"`
	VideoURL     *string `json:"videoUrl,omitempty"`
}

type courseResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Duration     int       `json:"duration"`
	Instructor   string    `json:"instructor"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	ContentURL   string    `json:"contentUrl"`
	VideoURL     string    `json:"videoUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func mapCourseResponse(course model.Course) courseResponse {
	return courseResponse{
		ID:           course.ID,
		Title:        course.Title,
		Description:  course.Description,
		Duration:     course.Duration,
		Instructor:   course.Instructor,
		ThumbnailURL: course.ThumbnailURL,
		ContentURL:   course.ContentURL,
		VideoURL:     course.VideoURL,
		CreatedAt:    course.CreatedAt,
		UpdatedAt:    course.UpdatedAt,
	}
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "missing_title")
		return
	}

	now := time.Now().UTC()
	course := model.Course{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
		Instructor:   req.Instructor,
		ThumbnailURL: req.ThumbnailURL,
		ContentURL:   req.ContentURL,
		VideoURL:     req.VideoURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateCourse(r.Context(), course); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, mapCourseResponse(course))
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.store.ListCourses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		resp = append(resp, mapCourseResponse(course))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	if courseID == "" {
		writeError(w, http.StatusBadRequest, "missing_course_id")
		return
	}

	course, err := s.store.GetCourse(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "course_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, mapCourseResponse(course))
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	if courseID == "" {
		writeError(w, http.StatusBadRequest, "missing_course_id")
		return
	}

	var req updateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	update := repository.CourseUpdate{
		Description:  req.Description,
		Duration:     req.Duration,
		Instructor:   req.Instructor,
		ThumbnailURL: req.ThumbnailURL,
		ContentURL:   req.ContentURL,
		VideoURL:     req.VideoURL,
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title != "" {
			update.Title = &title
		}
	}

	course, err := s.store.UpdateCourse(r.Context(), courseID, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "course_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, mapCourseResponse(course))
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	if courseID == "" {
		writeError(w, http.StatusBadRequest, "missing_course_id")
		return
	}

	deleted, err := s.store.DeleteCourse(r.Context(), courseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "course_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Students

type createStudentRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	EnrolledCourses []string `json:"enrolledCourses"`
}

type updateStudentRequest struct {
	Name            *string   `json:"name,omitempty"`
	Email           *string   `json:"email,omitempty"`
	EnrolledCourses *[]string `json:"enrolledCourses,omitempty"`
}

type studentResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	EnrolledCourses  []string  `json:"enrolledCourses"`
	RegistrationDate time.Time `json:"registrationDate"`
}

func mapStudentResponse(student model.Student) studentResponse {
	courses := student.EnrolledCourses
	if courses == nil {
		courses = []string{}
	}
	return studentResponse{
		ID:               student.ID,
		Name:             student.Name,
		Email:            student.Email,
		EnrolledCourses:  courses,
		RegistrationDate: student.RegistrationDate,
	}
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	student := model.Student{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Email:            req.Email,
		EnrolledCourses:  req.EnrolledCourses,
		RegistrationDate: time.Now().UTC(),
	}
	if student.EnrolledCourses == nil {
		student.EnrolledCourses = []string{}
	}

	if err := s.store.CreateStudent(r.Context(), student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "email_already_registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, mapStudentResponse(student))
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.store.ListStudents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]studentResponse, 0, len(students))
	for _, student := range students {
		resp = append(resp, mapStudentResponse(student))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "missing_student_id")
		return
	}

	student, err := s.store.GetStudent(r.Context(), studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "student_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, mapStudentResponse(student))
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "missing_student_id")
		return
	}

	var req updateStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	update := repository.StudentUpdate{EnrolledCourses: req.EnrolledCourses}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != "" {
			update.Name = &name
		}
	}
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if email != "" {
			update.Email = &email
		}
	}

	student, err := s.store.UpdateStudent(r.Context(), studentID, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "student_not_found")
			return
		}
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "email_already_registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, mapStudentResponse(student))
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "missing_student_id")
		return
	}

	deleted, err := s.store.DeleteStudent(r.Context(), studentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "student_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Instructors

type createInstructorRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	CoursesTaught []string `json:"coursesTaught"`
}

type updateInstructorRequest struct {
	Name          *string   `json:"name,omitempty"`
	Email         *string   `json:"email,omitempty"`
	CoursesTaught *[]string `json:"coursesTaught,omitempty"`
}

type instructorResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	CoursesTaught []string  `json:"coursesTaught"`
	CreatedAt     time.Time `json:"createdAt"`
}

func mapInstructorResponse(instructor model.Instructor) instructorResponse {
	courses := instructor.CoursesTaught
	if courses == nil {
		courses = []string{}
	}
	return instructorResponse{
		ID:            instructor.ID,
		Name:          instructor.Name,
		Email:         instructor.Email,
		CoursesTaught: courses,
		CreatedAt:     instructor.CreatedAt,
	}
}

func (s *Server) handleCreateInstructor(w http.ResponseWriter, r *http.Request) {
	var req createInstructorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	instructor := model.Instructor{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Email:         req.Email,
		CoursesTaught: req.CoursesTaught,
		CreatedAt:     time.Now().UTC(),
	}
	if instructor.CoursesTaught == nil {
		instructor.CoursesTaught = []string{}
	}

	if err := s.store.CreateInstructor(r.Context(), instructor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "email_already_registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, mapInstructorResponse(instructor))
}

func (s *Server) handleListInstructors(w http.ResponseWriter, r *http.Request) {
	instructors, err := s.store.ListInstructors(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]instructorResponse, 0, len(instructors))
	for _, instructor := range instructors {
		resp = append(resp, mapInstructorResponse(instructor))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetInstructor(w http.ResponseWriter, r *http.Request) {
	instructorID := chi.URLParam(r, "instructorID")
	if instructorID == "" {
		writeError(w, http.StatusBadRequest, "missing_instructor_id")
		return
	}

	instructor, err := s.store.GetInstructor(r.Context(), instructorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "instructor_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, mapInstructorResponse(instructor))
}

func (s *Server) handleUpdateInstructor(w http.ResponseWriter, r *http.Request) {
	instructorID := chi.URLParam(r, "instructorID")
	if instructorID == "" {
		writeError(w, http.StatusBadRequest, "missing_instructor_id")
		return
	}

	var req updateInstructorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	update := repository.InstructorUpdate{CoursesTaught: req.CoursesTaught}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != "" {
			update.Name = &name
		}
	}
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if email != "" {
			update.Email = &email
		}
	}

	instructor, err := s.store.UpdateInstructor(r.Context(), instructorID, update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "instructor_not_found")
			return
		}
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "email_already_registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, mapInstructorResponse(instructor))
}

func (s *Server) handleDeleteInstructor(w http.ResponseWriter, r *http.Request) {
	instructorID := chi.URLParam(r, "instructorID")
	if instructorID == "" {
		writeError(w, http.StatusBadRequest, "missing_instructor_id")
		return
	}

	deleted, err := s.store.DeleteInstructor(r.Context(), instructorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "instructor_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
