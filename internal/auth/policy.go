package auth

import apperrors "github.com/frahmantamala/applicant-tracking/internal"

// CanManageJob allows admins and the HR user who owns the posting.
func CanManageJob(u *User, ownerHRID int64) error {
	if u == nil {
		return apperrors.ErrUnauthorizedAccess
	}
	if u.IsAdmin() || (u.Role == RoleHR && u.ID == ownerHRID) {
		return nil
	}
	return apperrors.ErrUnauthorizedAccess
}

// CanViewCandidateRecord lets candidates see only their own records, staff see all.
func CanViewCandidateRecord(u *User, candidateID int64) error {
	if u == nil {
		return apperrors.ErrUnauthorizedAccess
	}
	if u.HasRole(RoleHR, RoleAdmin) || u.ID == candidateID {
		return nil
	}
	return apperrors.ErrUnauthorizedAccess
}
