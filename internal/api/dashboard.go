// ABOUTME: Dashboard statistics wrappers for owner and tenant views
// ABOUTME: Both roles share one endpoint; the backend shapes the response by role

package api

import "context"

const dashboardStatsPath = "/properties/dashboard-stats/"

// OwnerDashboard returns portfolio statistics for an owner account.
func (c *Client) OwnerDashboard(ctx context.Context) (*OwnerDashboardStats, error) {
	var out OwnerDashboardStats
	if err := c.get(ctx, dashboardStatsPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TenantDashboard returns rental standing for a tenant account.
func (c *Client) TenantDashboard(ctx context.Context) (*TenantDashboardStats, error) {
	var out TenantDashboardStats
	if err := c.get(ctx, dashboardStatsPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
