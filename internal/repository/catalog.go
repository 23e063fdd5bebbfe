package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"learnhub/api/internal/model"
)

// Courses

func (s *Store) CreateCourse(ctx context.Context, course model.Course) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO courses (id, title, description, duration, instructor, thumbnail_url, content_url, video_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, course.ID, course.Title, course.Description, course.Duration, course.Instructor, course.ThumbnailURL, course.ContentURL, course.VideoURL, course.CreatedAt, course.UpdatedAt)
	return err
}

func (s *Store) GetCourse(ctx context.Context, courseID string) (model.Course, error) {
	var course model.Course
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, description, duration, instructor, thumbnail_url, content_url, video_url, created_at, updated_at
		FROM courses
		WHERE id = $1
	`, courseID)
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Duration,
		&course.Instructor,
		&course.ThumbnailURL,
		&course.ContentURL,
		&course.VideoURL,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	return course, err
}

func (s *Store) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, description, duration, instructor, thumbnail_url, content_url, video_url, created_at, updated_at
		FROM courses
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]model.Course, 0)
	for rows.Next() {
		var course model.Course
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Description,
			&course.Duration,
			&course.Instructor,
			&course.ThumbnailURL,
			&course.ContentURL,
			&course.VideoURL,
			&course.CreatedAt,
			&course.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

type CourseUpdate struct {
	Title        *string
	Description  *string
	Duration     *int
	Instructor   *string
	ThumbnailURL *string
	ContentURL   *string
	VideoURL     *string
}

func (s *Store) UpdateCourse(ctx context.Context, courseID string, update CourseUpdate) (model.Course, error) {
	sets := []string{}
	args := []any{}
	arg := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, arg))
		args = append(args, value)
		arg++
	}
	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Duration != nil {
		add("duration", *update.Duration)
	}
	if update.Instructor != nil {
		add("instructor", *update.Instructor)
	}
	if update.ThumbnailURL != nil {
		add("thumbnail_url", *update.ThumbnailURL)
	}
	if update.ContentURL != nil {
		add("content_url", *update.ContentURL)
	}
	if update.VideoURL != nil {
		add("video_url", *update.VideoURL)
	}
	add("updated_at", time.Now().UTC())

	query := fmt.Sprintf(`
		UPDATE courses
		SET %s
		WHERE id = $%d
		RETURNING id, title, description, duration, instructor, thumbnail_url, content_url, video_url, created_at, updated_at
	`, strings.Join(sets, ", "), arg)
	args = append(args, courseID)

	var course model.Course
	row := s.pool.QueryRow(ctx, query, args...)
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Duration,
		&course.Instructor,
		&course.ThumbnailURL,
		&course.ContentURL,
		&course.VideoURL,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	return course, err
}

func (s *Store) DeleteCourse(ctx context.Context, courseID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Students

func (s *Store) CreateStudent(ctx context.Context, student model.Student) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO students (id, name, email, enrolled_courses, registration_date)
		VALUES ($1, $2, $3, $4, $5)
	`, student.ID, student.Name, student.Email, student.EnrolledCourses, student.RegistrationDate)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Store) GetStudent(ctx context.Context, studentID string) (model.Student, error) {
	var student model.Student
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, enrolled_courses, registration_date
		FROM students
		WHERE id = $1
	`, studentID)
	err := row.Scan(&student.ID, &student.Name, &student.Email, &student.EnrolledCourses, &student.RegistrationDate)
	return student, err
}

func (s *Store) ListStudents(ctx context.Context) ([]model.Student, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, enrolled_courses, registration_date
		FROM students
		ORDER BY registration_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]model.Student, 0)
	for rows.Next() {
		var student model.Student
		if err := rows.Scan(&student.ID, &student.Name, &student.Email, &student.EnrolledCourses, &student.RegistrationDate); err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

type StudentUpdate struct {
	Name            *string
	Email           *string
	EnrolledCourses *[]string
}

func (s *Store) UpdateStudent(ctx context.Context, studentID string, update StudentUpdate) (model.Student, error) {
	sets := []string{}
	args := []any{}
	arg := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, arg))
		args = append(args, value)
		arg++
	}
	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Email != nil {
		add("email", *update.Email)
	}
	if update.EnrolledCourses != nil {
		add("enrolled_courses", *update.EnrolledCourses)
	}
	if len(sets) == 0 {
		return s.GetStudent(ctx, studentID)
	}

	query := fmt.Sprintf(`
		UPDATE students
		SET %s
		WHERE id = $%d
		RETURNING id, name, email, enrolled_courses, registration_date
	`, strings.Join(sets, ", "), arg)
	args = append(args, studentID)

	var student model.Student
	row := s.pool.QueryRow(ctx, query, args...)
	err := row.Scan(&student.ID, &student.Name, &student.Email, &student.EnrolledCourses, &student.RegistrationDate)
	if isUniqueViolation(err) {
		return model.Student{}, ErrDuplicate
	}
	return student, err
}

func (s *Store) DeleteStudent(ctx context.Context, studentID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, studentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Instructors

func (s *Store) CreateInstructor(ctx context.Context, instructor model.Instructor) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO instructors (id, name, email, courses_taught, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, instructor.ID, instructor.Name, instructor.Email, instructor.CoursesTaught, instructor.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Store) GetInstructor(ctx context.Context, instructorID string) (model.Instructor, error) {
	var instructor model.Instructor
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, courses_taught, created_at
		FROM instructors
		WHERE id = $1
	`, instructorID)
	err := row.Scan(&instructor.ID, &instructor.Name, &instructor.Email, &instructor.CoursesTaught, &instructor.CreatedAt)
	return instructor, err
}

func (s *Store) ListInstructors(ctx context.Context) ([]model.Instructor, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, courses_taught, created_at
		FROM instructors
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instructors := make([]model.Instructor, 0)
	for rows.Next() {
		var instructor model.Instructor
		if err := rows.Scan(&instructor.ID, &instructor.Name, &instructor.Email, &instructor.CoursesTaught, &instructor.CreatedAt); err != nil {
			return nil, err
		}
		instructors = append(instructors, instructor)
	}
	return instructors, rows.Err()
}

type InstructorUpdate struct {
	Name          *string
	Email         *string
	CoursesTaught *[]string
}

func (s *Store) UpdateInstructor(ctx context.Context, instructorID string, update InstructorUpdate) (model.Instructor, error) {
	sets := []string{}
	args := []any{}
	arg := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, arg))
		args = append(args, value)
		arg++
	}
	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Email != nil {
		add("email", *update.Email)
	}
	if update.CoursesTaught != nil {
		add("courses_taught", *update.CoursesTaught)
	}
	if len(sets) == 0 {
		return s.GetInstructor(ctx, instructorID)
	}

	query := fmt.Sprintf(`
		UPDATE instructors
		SET %s
		WHERE id = $%d
		RETURNING id, name, email, courses_taught, created_at
	`, strings.Join(sets, ", "), arg)
	args = append(args, instructorID)

	var instructor model.Instructor
	row := s.pool.QueryRow(ctx, query, args...)
	err := row.Scan(&instructor.ID, &instructor.Name, &instructor.Email, &instructor.CoursesTaught, &instructor.CreatedAt)
	if isUniqueViolation(err) {
		return model.Instructor{}, ErrDuplicate
	}
	return instructor, err
}

func (s *Store) DeleteInstructor(ctx context.Context, instructorID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM instructors WHERE id = $1`, instructorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
