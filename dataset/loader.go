// Package dataset 负责 MovieLens 风格数据集的加载与内存快照管理。
//
// 输入为三个 "::" 分隔的平面文件：
//   - ratings.dat: userId::movieId::rating::timestamp
//   - movies.dat:  movieId::title::genres（genres 以 '|' 分隔）
//   - users.dat:   userId::gender::age::occupation::zipCode
//
// 文件在进程启动时读取一次；推荐核心只消费解析后的记录集，对磁盘格式无感知。
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/movierec/core"
)

const fieldSep = "::"

// Load 从目录加载 ratings.dat / movies.dat / users.dat 三个文件并构建快照。
// 三个文件并发解析。
func Load(dir string) (*Snapshot, error) {
	var (
		ratings []core.RatingRecord
		movies  []core.MovieRecord
		users   []core.UserRecord
	)

	var eg errgroup.Group
	eg.Go(func() error {
		var err error
		ratings, err = LoadRatings(filepath.Join(dir, "ratings.dat"))
		return err
	})
	eg.Go(func() error {
		var err error
		movies, err = LoadMovies(filepath.Join(dir, "movies.dat"))
		return err
	})
	eg.Go(func() error {
		var err error
		users, err = LoadUsers(filepath.Join(dir, "users.dat"))
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return NewSnapshot(ratings, movies, users), nil
}

// LoadRatings 从文件加载评分记录。
func LoadRatings(path string) ([]core.RatingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ratings: %w", err)
	}
	defer f.Close()
	return ParseRatings(f)
}

// LoadMovies 从文件加载电影记录。
func LoadMovies(path string) ([]core.MovieRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open movies: %w", err)
	}
	defer f.Close()
	return ParseMovies(f)
}

// LoadUsers 从文件加载用户记录。
func LoadUsers(path string) ([]core.UserRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open users: %w", err)
	}
	defer f.Close()
	return ParseUsers(f)
}

// ParseRatings 解析评分流：userId::movieId::rating::timestamp。
func ParseRatings(r io.Reader) ([]core.RatingRecord, error) {
	var out []core.RatingRecord
	err := scanLines(r, func(lineNo int, fields []string) error {
		if len(fields) != 4 {
			return fmt.Errorf("ratings line %d: want 4 fields, got %d", lineNo, len(fields))
		}
		userID, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return fmt.Errorf("ratings line %d: userId: %w", lineNo, err)
		}
		movieID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("ratings line %d: movieId: %w", lineNo, err)
		}
		rating, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("ratings line %d: rating: %w", lineNo, err)
		}
		ts, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return fmt.Errorf("ratings line %d: timestamp: %w", lineNo, err)
		}
		out = append(out, core.RatingRecord{
			UserID:    userID,
			MovieID:   movieID,
			Rating:    rating,
			Timestamp: ts,
		})
		return nil
	})
	return out, err
}

// ParseMovies 解析电影流：movieId::title::genres。
// Title 保留原文；PrimaryGenre / ReleaseYear 在此派生。
func ParseMovies(r io.Reader) ([]core.MovieRecord, error) {
	var out []core.MovieRecord
	err := scanLines(r, func(lineNo int, fields []string) error {
		if len(fields) != 3 {
			return fmt.Errorf("movies line %d: want 3 fields, got %d", lineNo, len(fields))
		}
		movieID, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return fmt.Errorf("movies line %d: movieId: %w", lineNo, err)
		}
		genres := strings.Split(fields[2], "|")
		out = append(out, core.MovieRecord{
			MovieID:      movieID,
			Title:        fields[1],
			Genres:       genres,
			PrimaryGenre: core.PrimaryGenre(genres),
			ReleaseYear:  core.ParseReleaseYear(fields[1]),
		})
		return nil
	})
	return out, err
}

// ParseUsers 解析用户流：userId::gender::age::occupation::zipCode。
// gender/age 在此完成编码映射，zipCode 丢弃。
func ParseUsers(r io.Reader) ([]core.UserRecord, error) {
	var out []core.UserRecord
	err := scanLines(r, func(lineNo int, fields []string) error {
		if len(fields) != 5 {
			return fmt.Errorf("users line %d: want 5 fields, got %d", lineNo, len(fields))
		}
		userID, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return fmt.Errorf("users line %d: userId: %w", lineNo, err)
		}
		age, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("users line %d: age: %w", lineNo, err)
		}
		occupation, err := strconv.Atoi(fields[3])
		if err != nil {
			return fmt.Errorf("users line %d: occupation: %w", lineNo, err)
		}
		out = append(out, core.UserRecord{
			UserID:     userID,
			Gender:     core.MapGender(fields[1]),
			Age:        core.MapAgeBracket(age),
			Occupation: occupation,
		})
		return nil
	})
	return out, err
}

// scanLines 逐行扫描并按 "::" 切分，空行跳过。
func scanLines(r io.Reader, fn func(lineNo int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		if err := fn(lineNo, strings.Split(line, fieldSep)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
