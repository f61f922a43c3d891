package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/maestrohq/maestro/pkg/models"
)

// SaveItem inserts or updates one item. Writes are durable before the
// call returns.
func (s *Store) SaveItem(item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vector, err := json.Marshal(item.Vector)
	if err != nil {
		return fmt.Errorf("marshal vector: %w", err)
	}

	var clusterID interface{}
	if item.ClusterID != nil {
		clusterID = *item.ClusterID
	}

	_, err = s.db.Exec(`
		INSERT INTO items (id, source, text, timestamp, vector, importance, cluster_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET cluster_id = excluded.cluster_id
	`, item.ID, item.Source, item.Text, item.Timestamp, string(vector), item.Importance, clusterID)
	if err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// SaveItems saves a batch of items in one transaction.
func (s *Store) SaveItems(items []*models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	for _, item := range items {
		vector, err := json.Marshal(item.Vector)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("marshal vector for %s: %w", item.ID, err)
		}
		var clusterID interface{}
		if item.ClusterID != nil {
			clusterID = *item.ClusterID
		}
		if _, err := tx.Exec(`
			INSERT INTO items (id, source, text, timestamp, vector, importance, cluster_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET cluster_id = excluded.cluster_id
		`, item.ID, item.Source, item.Text, item.Timestamp, string(vector), item.Importance, clusterID); err != nil {
			tx.Rollback()
			return fmt.Errorf("save item %s: %w", item.ID, err)
		}
	}
	return tx.Commit()
}

// SaveClusters records one clustering pass and its clusters.
func (s *Store) SaveClusters(passID string, clusters []*models.Cluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if _, err := tx.Exec("INSERT INTO cluster_passes (id) VALUES (?)", passID); err != nil {
		tx.Rollback()
		return fmt.Errorf("save pass: %w", err)
	}

	for _, c := range clusters {
		centroid, err := json.Marshal(c.Centroid)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("marshal centroid: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO clusters (pass_id, id, theme, description, centroid, size, quality_score)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, passID, c.ID, c.Theme, c.Description, string(centroid), c.Size, c.QualityScore); err != nil {
			tx.Rollback()
			return fmt.Errorf("save cluster %d: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// SavePlan persists one plan result.
func (s *Store) SavePlan(plan *models.PlanResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes, err := json.Marshal(plan.Nodes)
	if err != nil {
		return fmt.Errorf("marshal nodes: %w", err)
	}
	path, err := json.Marshal(plan.Path)
	if err != nil {
		return fmt.Errorf("marshal path: %w", err)
	}
	assignments, err := json.Marshal(plan.Assignments)
	if err != nil {
		return fmt.Errorf("marshal assignments: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO plans (id, goal, nodes, path, path_score, assignments, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, plan.ID, plan.Goal, string(nodes), string(path), plan.PathScore, string(assignments), plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

// RecentItems returns the most recently ingested items up to limit.
func (s *Store) RecentItems(limit int) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, source, text, timestamp, vector, importance, cluster_id
		FROM items
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// LatestClusters returns the clusters of the most recent pass, with the
// pass id. No passes yields an empty result, not an error.
func (s *Store) LatestClusters() (string, []*models.Cluster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var passID string
	err := s.db.QueryRow(`
		SELECT id FROM cluster_passes ORDER BY created_at DESC, rowid DESC LIMIT 1
	`).Scan(&passID)
	if err == sql.ErrNoRows {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("query latest pass: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT id, theme, description, centroid, size, quality_score
		FROM clusters
		WHERE pass_id = ?
		ORDER BY id
	`, passID)
	if err != nil {
		return "", nil, fmt.Errorf("query clusters: %w", err)
	}
	defer rows.Close()

	var clusters []*models.Cluster
	for rows.Next() {
		var c models.Cluster
		var centroid string
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Theme, &description, &centroid, &c.Size, &c.QualityScore); err != nil {
			return "", nil, fmt.Errorf("scan cluster: %w", err)
		}
		c.Description = description.String
		if err := json.Unmarshal([]byte(centroid), &c.Centroid); err != nil {
			return "", nil, fmt.Errorf("unmarshal centroid: %w", err)
		}
		clusters = append(clusters, &c)
	}
	return passID, clusters, rows.Err()
}

// RecentPlans returns the most recent plans up to limit.
func (s *Store) RecentPlans(limit int) ([]*models.PlanResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, goal, nodes, path, path_score, assignments, created_at
		FROM plans
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.PlanResult
	for rows.Next() {
		var p models.PlanResult
		var nodes, path, assignments string
		if err := rows.Scan(&p.ID, &p.Goal, &nodes, &path, &p.PathScore, &assignments, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		if err := json.Unmarshal([]byte(nodes), &p.Nodes); err != nil {
			return nil, fmt.Errorf("unmarshal nodes: %w", err)
		}
		if err := json.Unmarshal([]byte(path), &p.Path); err != nil {
			return nil, fmt.Errorf("unmarshal path: %w", err)
		}
		if err := json.Unmarshal([]byte(assignments), &p.Assignments); err != nil {
			return nil, fmt.Errorf("unmarshal assignments: %w", err)
		}
		plans = append(plans, &p)
	}
	return plans, rows.Err()
}

// ItemCount returns the number of stored items.
func (s *Store) ItemCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// scanItems converts rows into items.
func scanItems(rows *sql.Rows) ([]*models.Item, error) {
	var items []*models.Item
	for rows.Next() {
		var item models.Item
		var vector string
		var clusterID sql.NullInt64
		if err := rows.Scan(&item.ID, &item.Source, &item.Text, &item.Timestamp, &vector, &item.Importance, &clusterID); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if err := json.Unmarshal([]byte(vector), &item.Vector); err != nil {
			return nil, fmt.Errorf("unmarshal vector: %w", err)
		}
		if clusterID.Valid {
			label := int(clusterID.Int64)
			item.ClusterID = &label
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
