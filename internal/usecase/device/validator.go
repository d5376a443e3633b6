package device

import (
	domainDevice "lab-quality-monitor/internal/domain/device"
	appErrors "lab-quality-monitor/pkg/errors"
)

// ValidateAssignment checks the facility/department placement of a device.
// A department only exists inside a facility, and an active device must have
// a facility or its readings would have no daily record to land in.
func ValidateAssignment(d *domainDevice.Device) error {
	if d.DepartmentID != nil && d.FacilityID == nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "department_id requires facility_id", nil)
	}
	if d.IsActive && d.FacilityID == nil {
		return appErrors.NewAppError(appErrors.CodeValidation, "an active device must be assigned to a facility", nil)
	}
	return nil
}
