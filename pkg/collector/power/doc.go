// Package power reads the charge controller that powers the sensor.
//
// The controller is a Morningstar SunSaver MPPT on a Modbus RTU serial link.
// Each fetch opens the port, reads the eleven holding registers starting at
// 0x0008 (filtered ADC voltages and currents, temperatures, charge state and
// array faults) and closes it again. The register block is decoded with the
// same declarative decoder as the sensor status packet.
//
// A controller that cannot be reached yields a record of NA values so the
// output columns stay the same from one sample to the next.
package power
