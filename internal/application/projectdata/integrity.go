package projectdata

import (
	"context"
	"fmt"
)

// IntegrityReport 项目数据完整性检查结果
type IntegrityReport struct {
	IsValid    bool             `json:"is_valid"`
	Issues     []string         `json:"issues"`
	Warnings   []string         `json:"warnings"`
	Statistics map[string]int64 `json:"statistics"`
}

// ValidateIntegrity 检查项目内引用关系；issues 非空时 is_valid 为 false
func (s *Service) ValidateIntegrity(ctx context.Context, projectID int64) (*IntegrityReport, error) {
	if _, err := s.requireProject(ctx, projectID); err != nil {
		return nil, err
	}

	stats, err := s.Statistics(ctx, projectID)
	if err != nil {
		return nil, err
	}
	report := &IntegrityReport{
		Issues:     []string{},
		Warnings:   []string{},
		Statistics: stats,
	}

	s.checkCharacterRelations(ctx, projectID, report)
	s.checkChapterVolumes(ctx, projectID, report)

	report.IsValid = len(report.Issues) == 0
	return report, nil
}

// idSet 读取某类型在项目内的全部 ID；读取失败时返回 false 并跳过相关检查
func (s *Service) idSet(ctx context.Context, projectID int64, key string) (map[int64]struct{}, bool) {
	rows, err := s.GetOne(ctx, projectID, key)
	if err != nil {
		partial(ctx, "validate", key, err)
		return nil, false
	}
	ids := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		if id, ok := ParseID(row["id"]); ok {
			ids[id] = struct{}{}
		}
	}
	return ids, true
}

func (s *Service) checkCharacterRelations(ctx context.Context, projectID int64, report *IntegrityReport) {
	characters, ok := s.idSet(ctx, projectID, "character")
	if !ok {
		return
	}
	relations, err := s.GetOne(ctx, projectID, "character_relation")
	if err != nil {
		partial(ctx, "validate", "character_relation", err)
		return
	}

	for _, rel := range relations {
		relID, _ := ParseID(rel["id"])
		a, _ := ParseID(rel["character_a_id"])
		b, _ := ParseID(rel["character_b_id"])
		for _, cid := range []int64{a, b} {
			if _, found := characters[cid]; !found {
				report.Issues = append(report.Issues,
					fmt.Sprintf("character_relation %d references character %d outside project", relID, cid))
			}
		}
		if a == b {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("character_relation %d relates character %d to itself", relID, a))
		}
	}
}

func (s *Service) checkChapterVolumes(ctx context.Context, projectID int64, report *IntegrityReport) {
	volumes, ok := s.idSet(ctx, projectID, "volume")
	if !ok {
		return
	}
	chapters, err := s.GetOne(ctx, projectID, "chapter")
	if err != nil {
		partial(ctx, "validate", "chapter", err)
		return
	}

	for _, ch := range chapters {
		if ch["volume_id"] == nil {
			continue
		}
		vid, _ := ParseID(ch["volume_id"])
		if _, found := volumes[vid]; !found {
			chID, _ := ParseID(ch["id"])
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("chapter %d references missing volume %v", chID, ch["volume_id"]))
		}
	}
}
