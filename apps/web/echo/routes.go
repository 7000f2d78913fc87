package echoweb

import (
	"github.com/labstack/echo/v4"

	"github.com/sivitasdev/sivitas/core/user"
)

// Page paths the guard redirects to.
const (
	pathLanding        = "/"
	pathHome           = "/home"
	pathLogin          = "/login"
	pathRegister       = "/register"
	pathActivate       = "/activate-account"
	pathForgotPassword = "/forgot-password"
	pathAccountStatus  = "/account/status"
	pathForbidden      = "/403"
	pathCommunities    = "/communities"
	pathJoined         = "/communities/joined"
	pathAdminDashboard = "/admin/dashboard"
)

// AccessPolicy is the per-route navigation policy. Roles and PublicOnly are
// mutually exclusive in our declarations; if a route ever set both, the
// guard's fixed rule order is the precedence.
type AccessPolicy struct {
	// Roles restricts the route to authenticated users holding one of the
	// listed platform roles.
	Roles []string
	// PublicOnly marks routes only reachable while logged out (login,
	// register, landing).
	PublicOnly bool
}

func (p AccessPolicy) requiresAuth() bool { return len(p.Roles) > 0 }

// page registers a GET page handler with its access policy.
func (s *server) page(path string, h echo.HandlerFunc, policy AccessPolicy) {
	s.policies[path] = policy
	s.app.GET(path, h)
}

// action registers a POST form handler. Actions are not navigations: the
// guard does not run redirect rules for them and authorization is enforced
// by the remote API, which is authoritative for every mutation anyway.
func (s *server) action(path string, h echo.HandlerFunc) {
	s.app.POST(path, h)
}

func (s *server) routes() {
	all := user.AllRoles
	internal := user.InternalRoles
	adminOnly := []string{user.RoleAdmin}

	s.page(pathForbidden, s.forbiddenPage, AccessPolicy{})

	// public-only pages
	s.page(pathLanding, s.landingPage, AccessPolicy{PublicOnly: true})
	s.page(pathLogin, s.loginPage, AccessPolicy{PublicOnly: true})
	s.page(pathRegister, s.registerPage, AccessPolicy{PublicOnly: true})
	s.page(pathActivate, s.activatePage, AccessPolicy{PublicOnly: true})
	s.page(pathForgotPassword, s.forgotPasswordPage, AccessPolicy{PublicOnly: true})
	s.action(pathLogin, s.login)
	s.action(pathForgotPassword+"/request", s.requestPasswordReset)
	s.action(pathForgotPassword+"/verify", s.verifyPasswordReset)
	s.action(pathForgotPassword+"/reset", s.resetPassword)
	s.action(pathRegister, s.register)
	s.action(pathRegister+"/verify", s.verifyRegistration)
	s.action(pathActivate, s.activate)
	s.action("/logout", s.logout)

	// account lifecycle (expired Mahasiswa)
	s.page(pathAccountStatus, s.accountStatusPage, AccessPolicy{Roles: all})
	s.action(pathAccountStatus+"/request-otp", s.requestLifecycleOTP)
	s.action(pathAccountStatus+"/verify-otp", s.verifyLifecycleOTP)

	// feeds
	s.page(pathHome, s.homePage, AccessPolicy{Roles: internal})
	s.action("/posts", s.createHomePost)

	// posts & comments
	s.page("/post/:id", s.postPage, AccessPolicy{Roles: all})
	s.action("/post/:id/like", s.likePost)
	s.action("/post/:id/update", s.updatePost)
	s.action("/post/:id/pin", s.togglePostPin)
	s.action("/post/:id/delete", s.deletePost)
	s.action("/post/:id/comments", s.createComment)
	s.action("/comments/:id/replies", s.replyComment)
	s.action("/comments/:id/delete", s.deleteComment)

	// notifications
	s.page("/notifications", s.notificationsPage, AccessPolicy{Roles: all})
	s.action("/notifications/:id/read", s.markNotificationRead)
	s.action("/notifications/read-all", s.markAllNotificationsRead)
	s.action("/notifications/:id/delete", s.deleteNotification)

	// communities
	s.page(pathCommunities, s.communitiesPage, AccessPolicy{Roles: all})
	s.page(pathJoined, s.joinedCommunitiesPage, AccessPolicy{Roles: all})
	s.page("/communities/feeds", s.communityFeedsPage, AccessPolicy{Roles: all})
	s.page("/communities/:slug", s.communityPostsPage, AccessPolicy{Roles: all})
	s.page("/communities/:slug/forums", s.communityForumsPage, AccessPolicy{Roles: all})
	s.page("/communities/:slug/members", s.communityMembersPage, AccessPolicy{Roles: all})
	s.page("/communities/:slug/dashboard", s.communityDashboardPage, AccessPolicy{Roles: all})
	s.action("/communities", s.createCommunity)
	s.action("/communities/:slug/update", s.updateCommunity)
	s.action("/communities/:slug/join", s.joinCommunity)
	s.action("/communities/:slug/leave", s.leaveCommunity)
	s.action("/communities/:slug/posts", s.createCommunityPost)
	s.action("/communities/:slug/transfer-ownership", s.transferOwnership)
	s.action("/communities/:slug/invite-external", s.inviteExternal)
	s.action("/communities/:slug/invite-internal", s.inviteMember)
	s.action("/communities/:slug/accept-invite", s.acceptInvitation)
	s.action("/communities/:slug/decline-invite", s.declineInvitation)
	s.action("/communities/:slug/members/kick", s.kickMember)
	s.action("/communities/:slug/members/role", s.changeMemberRole)
	s.action("/communities/:slug/requests/approve", s.approveJoinRequest)
	s.action("/communities/:slug/requests/decline", s.declineJoinRequest)

	// forums
	s.page("/communities/:slug/forums/:forumId", s.forumPage, AccessPolicy{Roles: all})
	s.action("/communities/:slug/forums", s.createForum)
	s.action("/communities/:slug/forums/:forumId/responds", s.createRespond)
	s.action("/communities/:slug/forums/:forumId/responds/:respondId/accept", s.markRespondAccepted)
	s.action("/forums/:id/vote", s.voteForum)
	s.action("/responds/:id/vote", s.voteRespond)

	// profile & reports
	s.page("/profile/:username", s.profilePage, AccessPolicy{Roles: all})
	s.action("/profile/update", s.updateProfile)
	s.action("/profile/complete", s.completeProfile)
	s.action("/reports", s.submitReport)

	// admin
	s.page(pathAdminDashboard, s.adminDashboardPage, AccessPolicy{Roles: adminOnly})
	s.page("/admin/users", s.adminUsersPage, AccessPolicy{Roles: adminOnly})
	s.page("/admin/accounts", s.adminAccountsPage, AccessPolicy{Roles: adminOnly})
	s.page("/admin/reports", s.adminReportsPage, AccessPolicy{Roles: adminOnly})
	s.action("/admin/users", s.adminCreateUser)
	s.action("/admin/users/:id/update", s.adminUpdateUser)
	s.action("/admin/users/:id/toggle-active", s.adminToggleUserActive)
	s.action("/admin/users/:id/delete", s.adminDeleteUser)
	s.action("/admin/users/promote-to-alumni", s.adminPromoteToAlumni)
	s.action("/admin/accounts/:id/approve", s.adminApproveAccountRequest)
	s.action("/admin/accounts/:id/reject", s.adminRejectAccountRequest)
	s.action("/admin/reports/:type/:id/status", s.adminUpdateReportStatus)
	s.action("/admin/reports/:type/:id/delete-target", s.adminDeleteReportTarget)
}
