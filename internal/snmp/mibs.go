package snmp

// IF-MIB table columns, indexed by ifIndex.
const (
	OIDIfName        = "1.3.6.1.2.1.31.1.1.1.1" // ifName
	OIDIfDescr       = "1.3.6.1.2.1.2.2.1.2"    // ifDescr
	OIDIfSpeed       = "1.3.6.1.2.1.2.2.1.5"    // ifSpeed
	OIDIfAdminStatus = "1.3.6.1.2.1.2.2.1.7"    // ifAdminStatus
	OIDIfOperStatus  = "1.3.6.1.2.1.2.2.1.8"    // ifOperStatus
)

// BRIDGE-MIB forwarding database. dot1dTpFdbTable rows are indexed by the
// learned MAC address encoded as six decimal octets.
const (
	OIDDot1dTpFdbPort       = "1.3.6.1.2.1.17.4.3.1.2" // dot1dTpFdbPort
	OIDDot1dTpFdbStatus     = "1.3.6.1.2.1.17.4.3.1.3" // dot1dTpFdbStatus
	OIDDot1dBasePortIfIndex = "1.3.6.1.2.1.17.1.4.1.2" // dot1dBasePortIfIndex
)

// Q-BRIDGE-MIB (VLAN-aware) forwarding database. dot1qTpFdbTable rows are
// indexed by FDB id (VLAN) followed by the six MAC octets.
const (
	OIDDot1qTpFdbPort   = "1.3.6.1.2.1.17.7.1.2.2.1.2" // dot1qTpFdbPort
	OIDDot1qTpFdbStatus = "1.3.6.1.2.1.17.7.1.2.2.1.3" // dot1qTpFdbStatus
	OIDDot1qVlanName    = "1.3.6.1.2.1.17.7.1.4.3.1.1" // dot1qVlanStaticName
)
