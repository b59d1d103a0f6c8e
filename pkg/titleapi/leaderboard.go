package titleapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/huynhanx03/go-titlesync/pkg/leaderboard"
)

type leaderboardResponse struct {
	LeaderboardInfo struct {
		TotalCount uint32 `json:"totalCount"`
	} `json:"leaderboardInfo"`
	UserList   []leaderboard.Row `json:"userList"`
	PagingInfo struct {
		ContinuationToken string `json:"continuationToken"`
	} `json:"pagingInfo"`
}

// GetLeaderboard fetches one page of a global leaderboard.
func (c *Client) GetLeaderboard(ctx context.Context, userID string, q leaderboard.Query) (*leaderboard.Result, error) {
	path := fmt.Sprintf("/scids/%s/leaderboards/%s",
		url.PathEscape(c.scid), url.PathEscape(q.StatName))

	return c.fetchLeaderboard(ctx, path, userID, "", q)
}

// GetSocialLeaderboard fetches one page of a leaderboard filtered to
// the user's social group.
func (c *Client) GetSocialLeaderboard(ctx context.Context, userID, socialGroup string, q leaderboard.Query) (*leaderboard.Result, error) {
	path := fmt.Sprintf("/users/%s/scids/%s/stats/%s/people/%s",
		url.PathEscape(userID), url.PathEscape(c.scid),
		url.PathEscape(q.StatName), url.PathEscape(socialGroup))

	return c.fetchLeaderboard(ctx, path, userID, socialGroup, q)
}

func (c *Client) fetchLeaderboard(ctx context.Context, path, userID, socialGroup string, q leaderboard.Query) (*leaderboard.Result, error) {
	params := url.Values{}
	if q.MaxItems > 0 {
		params.Set("maxItems", strconv.FormatUint(uint64(q.MaxItems), 10))
	}
	if q.SkipResultToMe {
		params.Set("skipToUser", userID)
	}
	if q.SkipResultToRank > 0 {
		params.Set("skipToRank", strconv.FormatUint(uint64(q.SkipResultToRank), 10))
	}
	if q.ContinuationToken != "" {
		params.Set("continuationToken", q.ContinuationToken)
	}
	params.Set("sortOrder", q.Order.String())

	var resp leaderboardResponse
	if err := c.do(ctx, http.MethodGet, path+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	return &leaderboard.Result{
		TotalRowCount:     resp.LeaderboardInfo.TotalCount,
		Rows:              resp.UserList,
		Query:             q,
		ContinuationToken: resp.PagingInfo.ContinuationToken,
	}, nil
}
