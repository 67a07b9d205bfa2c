package requests

import (
	"context"
	"fmt"
)

func (s *Store) CreatePermission(ctx context.Context, payload PermissionPayload) (Request, error) {
	out := Request{Kind: KindPermission, Status: StatusPending, HiddenBy: []string{}, Permission: &payload}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO permission_requests (username, start_date, end_date, reason, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id, created_at
  `, payload.User, payload.StartDate, payload.EndDate, payload.Reason, StatusPending).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return Request{}, err
	}
	return out, nil
}

func (s *Store) CreateVacation(ctx context.Context, payload VacationPayload) (Request, error) {
	out := Request{Kind: KindVacation, Status: StatusPending, HiddenBy: []string{}, Vacation: &payload}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO vacation_requests (username, start_date, end_date, period, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id, created_at
  `, payload.User, payload.StartDate, payload.EndDate, payload.Period, StatusPending).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return Request{}, err
	}
	return out, nil
}

func (s *Store) CreateShiftChange(ctx context.Context, payload ShiftChangePayload) (Request, error) {
	out := Request{Kind: KindShiftChange, Status: StatusPending, HiddenBy: []string{}, ShiftChange: &payload}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_change_requests (requester, acceptor, date, reason, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id, created_at
  `, payload.Requester, payload.Acceptor, payload.Date, payload.Reason, StatusPending).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return Request{}, err
	}
	return out, nil
}

func tableFor(kind Kind) (string, error) {
	switch kind {
	case KindPermission:
		return "permission_requests", nil
	case KindVacation:
		return "vacation_requests", nil
	case KindShiftChange:
		return "shift_change_requests", nil
	}
	return "", fmt.Errorf("unknown request kind %q", kind)
}

func (s *Store) Get(ctx context.Context, kind Kind, id string) (Request, error) {
	records, err := s.query(ctx, kind, "WHERE r.id = $1", []any{id})
	if err != nil {
		return Request{}, err
	}
	if len(records) == 0 {
		return Request{}, ErrNotFound
	}
	return records[0], nil
}

func (s *Store) Update(ctx context.Context, req Request) error {
	var err error
	switch {
	case req.Permission != nil:
		_, err = s.DB.Exec(ctx, `
      UPDATE permission_requests
      SET start_date = $1, end_date = $2, reason = $3, status = $4, review_reason = $5, reviewed_by = $6
      WHERE id = $7
    `, req.Permission.StartDate, req.Permission.EndDate, req.Permission.Reason, req.Status, nullable(req.ReviewReason), nullable(req.ReviewedBy), req.ID)
	case req.Vacation != nil:
		_, err = s.DB.Exec(ctx, `
      UPDATE vacation_requests
      SET start_date = $1, end_date = $2, period = $3, status = $4, review_reason = $5, reviewed_by = $6
      WHERE id = $7
    `, req.Vacation.StartDate, req.Vacation.EndDate, req.Vacation.Period, req.Status, nullable(req.ReviewReason), nullable(req.ReviewedBy), req.ID)
	case req.ShiftChange != nil:
		_, err = s.DB.Exec(ctx, `
      UPDATE shift_change_requests
      SET acceptor = $1, date = $2, reason = $3, status = $4, review_reason = $5, reviewed_by = $6
      WHERE id = $7
    `, req.ShiftChange.Acceptor, req.ShiftChange.Date, req.ShiftChange.Reason, req.Status, nullable(req.ReviewReason), nullable(req.ReviewedBy), req.ID)
	default:
		err = fmt.Errorf("request %s has no payload", req.ID)
	}
	return err
}

func (s *Store) Delete(ctx context.Context, kind Kind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	result, err := s.DB.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context, kind Kind, scope ListScope) ([]Request, error) {
	if scope.ManagerView {
		if kind == KindShiftChange {
			return s.query(ctx, kind, "WHERE r.requester IN (SELECT username FROM users WHERE department = $1)", []any{scope.Department})
		}
		return s.query(ctx, kind, "WHERE r.username IN (SELECT username FROM users WHERE department = $1)", []any{scope.Department})
	}
	if kind == KindShiftChange {
		return s.query(ctx, kind, "WHERE r.requester = $1 OR r.acceptor = $1", []any{scope.Viewer})
	}
	return s.query(ctx, kind, "WHERE r.username = $1", []any{scope.Viewer})
}

func (s *Store) ListActiveVacations(ctx context.Context, user string) ([]Request, error) {
	return s.query(ctx, KindVacation, "WHERE r.username = $1 AND r.status IN ($2,$3)", []any{user, StatusPending, StatusApproved})
}

func (s *Store) AddHidden(ctx context.Context, kind Kind, id, user string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO request_hidden (kind, request_id, username)
    VALUES ($1,$2,$3)
    ON CONFLICT (kind, request_id, username) DO NOTHING
  `, string(kind), id, user)
	return err
}

func (s *Store) query(ctx context.Context, kind Kind, where string, args []any) ([]Request, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var selectCols string
	switch kind {
	case KindShiftChange:
		selectCols = "r.requester, r.acceptor, r.date, r.reason"
	case KindVacation:
		selectCols = "r.username, r.start_date, r.end_date, r.period"
	default:
		selectCols = "r.username, r.start_date, r.end_date, r.reason"
	}

	query := fmt.Sprintf(`
    SELECT r.id, r.status, COALESCE(r.review_reason, ''), COALESCE(r.reviewed_by, ''), r.created_at,
           COALESCE(array_agg(h.username) FILTER (WHERE h.username IS NOT NULL), '{}'),
           %s
    FROM %s r
    LEFT JOIN request_hidden h ON h.kind = $%d AND h.request_id = r.id
    %s
    GROUP BY r.id
    ORDER BY r.created_at
  `, selectCols, table, len(args)+1, where)
	args = append(args, string(kind))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req := Request{Kind: kind}
		var hidden []string
		switch kind {
		case KindShiftChange:
			payload := &ShiftChangePayload{}
			if err := rows.Scan(&req.ID, &req.Status, &req.ReviewReason, &req.ReviewedBy, &req.CreatedAt, &hidden,
				&payload.Requester, &payload.Acceptor, &payload.Date, &payload.Reason); err != nil {
				return nil, err
			}
			req.ShiftChange = payload
		case KindVacation:
			payload := &VacationPayload{}
			if err := rows.Scan(&req.ID, &req.Status, &req.ReviewReason, &req.ReviewedBy, &req.CreatedAt, &hidden,
				&payload.User, &payload.StartDate, &payload.EndDate, &payload.Period); err != nil {
				return nil, err
			}
			req.Vacation = payload
		default:
			payload := &PermissionPayload{}
			if err := rows.Scan(&req.ID, &req.Status, &req.ReviewReason, &req.ReviewedBy, &req.CreatedAt, &hidden,
				&payload.User, &payload.StartDate, &payload.EndDate, &payload.Reason); err != nil {
				return nil, err
			}
			req.Permission = payload
		}
		if hidden == nil {
			hidden = []string{}
		}
		req.HiddenBy = hidden
		out = append(out, req)
	}
	return out, rows.Err()
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
