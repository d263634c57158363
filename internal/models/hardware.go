package models

// HardwareColumns is the header of every hardware report, in the order of the query projection.
var HardwareColumns = []string{ //nolint:gochecknoglobals // fixed report layout
	"ManufacturerName",
	"DeviceDescription",
	"TypeDescription",
	"Description",
	"SerialNo",
	"Surname",
	"GivenName",
	"Location",
	"ManagerADLogin",
}

// HardwareAsset represents a single hardware item assigned to an employee.
// Every field is an opaque string, serial numbers included.
type HardwareAsset struct {
	Manufacturer      string `json:"manufacturerName"`
	DeviceDescription string `json:"deviceDescription"`
	TypeDescription   string `json:"typeDescription"`
	AssetDescription  string `json:"description"`
	SerialNo          string `json:"serialNo"`
	Surname           string `json:"surname"`
	GivenName         string `json:"givenName"`
	Location          string `json:"location"`
	ManagerLogin      string `json:"managerADLogin"`
}

// Values returns the asset fields in HardwareColumns order.
func (h HardwareAsset) Values() []string {
	return []string{
		h.Manufacturer,
		h.DeviceDescription,
		h.TypeDescription,
		h.AssetDescription,
		h.SerialNo,
		h.Surname,
		h.GivenName,
		h.Location,
		h.ManagerLogin,
	}
}
