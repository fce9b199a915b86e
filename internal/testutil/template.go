package testutil

// SampleTemplate is a small flattened multizone template used by the
// integration tests: one annotated controller with a data record and two
// elementary blocks, one equipment section, and connections covering all
// three pruning outcomes.
const SampleTemplate = `{
  "instances": [
    {"path": "", "class": "Buildings.Templates.AirHandlersFans.VAVMultiZone",
     "connections": [
       {"from": {"instance": "ctl.limDam", "port": "y"},
        "to": {"instance": "secOutRel", "port": "yDamOut"}},
       {"from": {"instance": "secOutRel", "port": "port_a"},
        "to": {"instance": "secOutRel", "port": "port_b"}}
     ]},
    {
      "path": "ctl",
      "class": "MyProject.Controls.G36VAVMultiZone",
      "annotations": ["__cdl(export=true)"],
      "parameters": [
        {"name": "VPriSysMax_flow", "expr": {
          "binary": "div",
          "left": {"ref": "secOutRel.mAirSup_flow_nominal"},
          "right": {"lit": 1.2}
        }},
        {"name": "TSupSet_max", "expr": {"ref": "dat.TSupSet_max"}}
      ],
      "connections": [
        {"from": {"instance": "ctl.conSup", "port": "y"},
         "to": {"instance": "ctl.limDam", "port": "u"}}
      ]
    },
    {
      "path": "ctl.dat",
      "class": "Buildings.Templates.AirHandlersFans.Components.Data.VAVMultiZoneController",
      "kind": "record",
      "parameters": [{"name": "TSupSet_max", "expr": {"lit": 291.15}}]
    },
    {
      "path": "ctl.conSup",
      "class": "Buildings.Controls.OBC.CDL.Reals.PID",
      "parameters": [{"name": "k", "expr": {"lit": 0.5}}]
    },
    {
      "path": "ctl.limDam",
      "class": "Buildings.Controls.OBC.CDL.Reals.Limiter",
      "parameters": [{"name": "uMax", "expr": {"lit": 1}}]
    },
    {
      "path": "secOutRel",
      "class": "Buildings.Templates.AirHandlersFans.Components.OutdoorReliefReturnSection",
      "parameters": [{"name": "mAirSup_flow_nominal", "expr": {"lit": 4000}}]
    }
  ]
}`
