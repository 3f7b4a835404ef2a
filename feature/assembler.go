// Package feature 实现特征组装：把原始评分/电影/用户记录连接成一张扁平表，
// 并为候选电影构造推理用的特征行。
package feature

import (
	"context"
	"sort"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/encoder"
	"github.com/rushteam/movierec/pkg/conv"
)

// Join 执行固定顺序的左连接：先 ratings ⋈ movies，再 ⋈ users。
//
// 左连接语义：
//   - 每条评分必出一行（左表行数不变）
//   - 评分无对应电影：行保留，电影字段为零值，HasMovie=false
//   - 评分无对应用户：行保留，用户字段为零值，HasUser=false
func Join(ratings []core.RatingRecord, movies []core.MovieRecord, users []core.UserRecord) []core.JoinedRecord {
	movieByID := make(map[int64]*core.MovieRecord, len(movies))
	for i := range movies {
		movieByID[movies[i].MovieID] = &movies[i]
	}
	userByID := make(map[int64]*core.UserRecord, len(users))
	for i := range users {
		userByID[users[i].UserID] = &users[i]
	}

	out := make([]core.JoinedRecord, 0, len(ratings))
	for _, r := range ratings {
		row := core.JoinedRecord{
			UserID:    r.UserID,
			MovieID:   r.MovieID,
			Rating:    r.Rating,
			Timestamp: r.Timestamp,
		}
		// 第一步：⋈ movies
		if m, ok := movieByID[r.MovieID]; ok {
			row.PrimaryGenre = m.PrimaryGenre
			row.ReleaseYear = m.ReleaseYear
			row.HasMovie = true
		}
		// 第二步：⋈ users
		if u, ok := userByID[r.UserID]; ok {
			row.Gender = u.Gender
			row.Age = u.Age
			row.Occupation = u.Occupation
			row.HasUser = true
		}
		out = append(out, row)
	}
	return out
}

// Assembler 为候选电影构造特征行并完成编码。
//
// 用户静态画像默认取自请求上下文（rctx.User，由推荐入口从快照填充）；
// 设置 UserFeatures 后改从特征服务获取（如 Feast 在线特征库）。
type Assembler struct {
	Registry *encoder.Registry

	// UserFeatures 可选的远程用户特征源；为 nil 时使用 rctx.User
	UserFeatures core.FeatureService
}

// NewAssembler 创建特征组装器。
func NewAssembler(registry *encoder.Registry, opts ...AssemblerOption) *Assembler {
	a := &Assembler{Registry: registry}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AssemblerOption 配置 Assembler。
type AssemblerOption func(*Assembler)

// WithUserFeatures 设置远程用户特征源（替代快照画像）。
func WithUserFeatures(fs core.FeatureService) AssemblerOption {
	return func(a *Assembler) {
		a.UserFeatures = fs
	}
}

// BuildRow 为 (用户, 候选电影) 构造一条无评分的连接行。
func (a *Assembler) BuildRow(user *core.UserRecord, movie *core.MovieRecord) *core.JoinedRecord {
	row := &core.JoinedRecord{
		UserID:  user.UserID,
		MovieID: movie.MovieID,

		PrimaryGenre: movie.PrimaryGenre,
		ReleaseYear:  movie.ReleaseYear,
		HasMovie:     true,

		Gender:     user.Gender,
		Age:        user.Age,
		Occupation: user.Occupation,
		HasUser:    true,
	}
	return row
}

// ResolveUser 解析请求用户的静态画像。
// 优先使用 rctx.User；配置了 UserFeatures 时从特征服务获取。
// 两者都取不到时返回 (nil, false)。
func (a *Assembler) ResolveUser(ctx context.Context, rctx *core.RecommendContext) (*core.UserRecord, bool) {
	if rctx.User != nil {
		return rctx.User, true
	}
	if a.UserFeatures == nil {
		return nil, false
	}
	features, err := a.UserFeatures.GetUserFeatures(ctx, rctx.UserID)
	if err != nil || len(features) == 0 {
		return nil, false
	}
	gender, _ := conv.ToFloat64(features["gender"])
	age, _ := conv.ToFloat64(features["age"])
	occupation, _ := conv.ToFloat64(features["occupation"])
	return &core.UserRecord{
		UserID:     rctx.UserID,
		Gender:     int(gender),
		Age:        int(age),
		Occupation: int(occupation),
	}, true
}

// CandidateRows 为用户枚举所有未评分电影并编码为特征行。
// 候选按 movieId 升序枚举；词表 miss 的行被丢弃（逐行传播），
// 丢弃数量由返回值 dropped 报告。
//
// 已评分电影的排除是正确性约束：模型的目的就是预测"未知"偏好。
func (a *Assembler) CandidateRows(
	ctx context.Context,
	user *core.UserRecord,
	movies []*core.MovieRecord,
) (items []*core.Item, dropped int, err error) {
	// 枚举顺序确定：movieId 升序
	sorted := make([]*core.MovieRecord, len(movies))
	copy(sorted, movies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MovieID < sorted[j].MovieID })

	items = make([]*core.Item, 0, len(sorted))
	for _, m := range sorted {
		row := a.BuildRow(user, m)
		encoded, encErr := a.Registry.TransformRecord(row)
		if encErr != nil {
			if core.IsUnseenCategory(encErr) {
				dropped++
				continue
			}
			return nil, dropped, encErr
		}
		item := core.NewItem(m.MovieID)
		item.Movie = m
		item.Row = row
		item.Encoded = encoded
		items = append(items, item)
	}
	return items, dropped, nil
}
