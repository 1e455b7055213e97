package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ikkim/reelnote-backend/config"
	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/ikkim/reelnote-backend/internal/app/repository"
	"github.com/ikkim/reelnote-backend/internal/app/service"
	"github.com/ikkim/reelnote-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// 시트 컬럼 순서: 영화 ID, 영화 제목, 이름, 이메일, 내용, 작성일(선택)
const (
	colMovieID = iota
	colMovieTitle
	colName
	colEmail
	colMessage
	colCreatedAt
)

func main() {
	yes := flag.Bool("y", false, "skip the confirmation prompt")
	flag.Parse()

	// 명령줄 인자 확인
	if flag.NArg() < 1 {
		log.Fatal("Usage: go run cmd/seed/main.go [-y] <xlsx_file_path>")
	}
	filePath := flag.Arg(0)

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	comments, skipped, err := readExternalCommentsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Total comments to import: %d (skipped rows: %d)\n", len(comments), skipped)

	// 사용자 확인
	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	commentService := service.NewCommentService(nil, repository.NewExternalCommentRepository(db.GetDB()), service.NewProfileService(nil, 0))
	imported, err := commentService.ImportExternalComments(context.Background(), comments)
	if err != nil {
		log.Fatal("Failed to import external comments:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total comments imported: %d\n", imported)
}

// readExternalCommentsFromXLSX reads the first sheet. The header row and rows
// missing a movie id, name or message are skipped.
func readExternalCommentsFromXLSX(filePath string) ([]model.ExternalComment, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var comments []model.ExternalComment
	skipped := 0

	// 첫 행은 헤더이므로 스킵
	for _, row := range rows[1:] {
		movieID, err := strconv.ParseInt(cell(row, colMovieID), 10, 64)
		if err != nil || movieID <= 0 {
			skipped++
			continue
		}

		name := cell(row, colName)
		message := cell(row, colMessage)
		if name == "" || message == "" {
			skipped++
			continue
		}

		comment := model.ExternalComment{
			MovieID:    movieID,
			MovieTitle: cell(row, colMovieTitle),
			Name:       name,
			Email:      cell(row, colEmail),
			Message:    message,
		}
		if createdAt, err := time.Parse("2006-01-02 15:04:05", cell(row, colCreatedAt)); err == nil {
			comment.CreatedAt = createdAt
		}
		comments = append(comments, comment)
	}

	return comments, skipped, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
